// Package session implements the image browsing and filing session: an
// immutable value holding the image set, its cursor and the label bindings,
// plus the transitions the UI adapters call in response to user events.
package session

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"picsort/internal/config"
	"picsort/internal/destination"
	"picsort/internal/errors"
	"picsort/internal/fileops"
	"picsort/internal/imageset"
	"picsort/internal/log"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
)

// Phase is the state of a session.
type Phase int

const (
	// Empty means no directory has been loaded or it held no images.
	Empty Phase = iota
	// Browsing means the cursor points at an image.
	Browsing
	// Done means every image has been filed.
	Done
)

func (p Phase) String() string {
	switch p {
	case Empty:
		return "Empty"
	case Browsing:
		return "Browsing"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

// maxSuggestDistance bounds how far a typed label may be from a bound one
// before it is considered a new label rather than a typo.
const maxSuggestDistance = 2

// Session is a sorting session. Transitions return a new Session and never
// modify the receiver.
type Session struct {
	id     string
	mode   string
	source string
	phase  Phase
	images imageset.Set
	dests  destination.Map
}

// New creates an empty session in the given mode.
func New(mode string) Session {
	if mode != config.ModeCopy {
		mode = config.ModeMove
	}
	return Session{
		id:     uuid.NewString(),
		mode:   mode,
		phase:  Empty,
		images: imageset.Empty(),
	}
}

// ID returns the session id used in log fields.
func (s Session) ID() string { return s.id }

// Mode returns config.ModeMove or config.ModeCopy.
func (s Session) Mode() string { return s.mode }

// Source returns the loaded directory.
func (s Session) Source() string { return s.source }

// Phase returns the current state.
func (s Session) Phase() Phase { return s.phase }

// Images returns the remaining image set.
func (s Session) Images() imageset.Set { return s.images }

// Destinations returns the label bindings.
func (s Session) Destinations() destination.Map { return s.dests }

// Remaining returns the number of images not yet filed.
func (s Session) Remaining() int { return s.images.Len() }

// Cursor returns the current index, or imageset.NoCursor.
func (s Session) Cursor() int { return s.images.Cursor() }

// Current returns the image under the cursor.
func (s Session) Current() (string, bool) {
	if s.phase != Browsing {
		return "", false
	}
	return s.images.Current()
}

func (s Session) logger() *log.Logger {
	return log.LogWithFields(log.F("session", s.id), log.F("mode", s.mode))
}

// Load scans dir for images and starts browsing them. Move-mode label
// bindings survive a reload. Copy mode files under the source folder, so
// loading a different folder drops its bindings. On error the receiver is
// returned unchanged.
func (s Session) Load(dir string, m *imageset.Matcher) (Session, error) {
	if strings.TrimSpace(dir) == "" {
		return s, errors.ErrNoDirectorySelected
	}

	set, err := imageset.Scan(dir, m)
	if err != nil {
		return s, err
	}
	if set.IsEmpty() {
		s.logger().With(log.F("dir", dir)).Warn("No images found")
		return s, errors.ErrEmptyImageSet
	}

	next := s
	if s.mode == config.ModeCopy && s.source != "" && filepath.Clean(dir) != filepath.Clean(s.source) {
		next.dests = next.dests.Clear()
	}
	next.source = dir
	next.images = set
	next.phase = Browsing
	next.logger().With(log.F("dir", dir), log.F("images", set.Len())).Info("Loaded images")
	return next, nil
}

// Next advances the cursor, wrapping to the first image.
func (s Session) Next() Session {
	if s.phase != Browsing {
		return s
	}
	s.images = s.images.Next()
	return s
}

// Previous moves the cursor back, wrapping to the last image.
func (s Session) Previous() Session {
	if s.phase != Browsing {
		return s
	}
	s.images = s.images.Previous()
	return s
}

// ClearDestinations forgets every label binding. The next commit of any label
// resolves its destination again.
func (s Session) ClearDestinations() Session {
	s.dests = s.dests.Clear()
	s.logger().Info("Cleared destinations")
	return s
}

// ParseLabels turns raw input into labels. Move mode takes the whole trimmed
// input as one label. Copy mode splits on commas, trims each part, and drops
// empty parts and duplicates while keeping the first-seen order.
func ParseLabels(mode, input string) ([]string, error) {
	var labels []string
	if mode == config.ModeCopy {
		seen := make(map[string]bool)
		for _, part := range strings.Split(input, ",") {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			labels = append(labels, part)
		}
	} else if label := strings.TrimSpace(input); label != "" {
		labels = []string{label}
	}

	if len(labels) == 0 {
		return nil, errors.ErrEmptyLabelInput
	}
	for _, label := range labels {
		if err := destination.ValidateLabel(label); err != nil {
			return nil, err
		}
	}
	return labels, nil
}

// NeedsDestination reports whether committing input would prompt for a base
// directory. Adapters with asynchronous folder dialogs use it to ask first.
func (s Session) NeedsDestination(input string) bool {
	if s.mode != config.ModeMove || s.phase != Browsing {
		return false
	}
	labels, err := ParseLabels(s.mode, input)
	if err != nil {
		return false
	}
	_, bound := s.dests.Lookup(labels[0])
	return !bound
}

// Suggest returns the closest bound label when label itself is unbound and
// within a small edit distance of one, to catch typos before a new folder is
// created. Copy mode never suggests since athlete numbers differ by a digit.
func (s Session) Suggest(label string) (string, bool) {
	label = strings.TrimSpace(label)
	if s.mode != config.ModeMove || label == "" {
		return "", false
	}
	if _, bound := s.dests.Lookup(label); bound {
		return "", false
	}

	best, bestDist := "", maxSuggestDistance+1
	for _, candidate := range s.dests.Labels() {
		d := levenshtein.ComputeDistance(strings.ToLower(label), strings.ToLower(candidate))
		if d < bestDist && d < utf8.RuneCountInString(label) {
			best, bestDist = candidate, d
		}
	}
	return best, best != ""
}

// Env holds the collaborators a commit performs I/O through.
type Env struct {
	Filer fileops.Filer
	// Prompt asks for a base directory in move mode.
	Prompt destination.Prompt
}

func (s Session) resolver(env Env) destination.Resolver {
	if s.mode == config.ModeCopy {
		return destination.CopyResolver{Source: s.source, Dirs: env.Filer}
	}
	return destination.MoveResolver{Prompt: env.Prompt, Dirs: env.Filer}
}

// Commit files the current image under the labels parsed from input and
// removes it from the set. The cursor keeps its index, wrapping to 0, and the
// session is Done once the set is empty.
//
// In move mode any failure leaves the session unchanged. In copy mode a
// failure on a later label keeps the copies already made and the bindings
// created for them, the image stays in the set, and the partial result is
// returned with the error.
func (s Session) Commit(input string, env Env) (Session, CommitResult, error) {
	result := CommitResult{Mode: s.mode}

	if s.phase != Browsing {
		return s, result, errors.NewSessionError("no image to file in state "+s.phase.String(), errors.InvalidState, nil)
	}
	labels, err := ParseLabels(s.mode, input)
	if err != nil {
		return s, result, err
	}
	current, _ := s.images.Current()
	result.Image = current
	result.Labels = labels

	resolver := s.resolver(env)
	logger := s.logger().With(log.F("image", current))

	next := s
	for _, label := range labels {
		filed := Filed{Label: label}

		dir, dests, err := resolver.Resolve(next.dests, label)
		if err != nil {
			filed.Err = err
			result.Filed = append(result.Filed, filed)
			logger.WithError(err).With(log.F("label", label)).Warn("Commit aborted")
			if s.mode == config.ModeCopy {
				return next, result, err
			}
			return s, result, err
		}

		dest := filepath.Join(dir, filepath.Base(current))
		var outcome fileops.Outcome
		if s.mode == config.ModeCopy {
			outcome, err = env.Filer.CopyPreservingMetadata(current, dest)
		} else {
			outcome, err = env.Filer.Move(current, dest)
		}
		filed.Destination = dir
		filed.Outcome = outcome
		if err != nil {
			filed.Err = err
			result.Filed = append(result.Filed, filed)
			logger.WithError(err).With(log.F("label", label)).Error("File operation failed")
			if s.mode == config.ModeCopy {
				next.dests = dests
				return next, result, err
			}
			return s, result, err
		}

		next.dests = dests
		result.Filed = append(result.Filed, filed)
	}

	next.images = next.images.RemoveCurrent()
	if next.images.IsEmpty() {
		next.phase = Done
	}
	result.Remaining = next.images.Len()
	result.Done = next.phase == Done

	logger.With(log.F("labels", strings.Join(labels, ",")), log.F("remaining", result.Remaining)).Info("Committed image")
	return next, result, nil
}
