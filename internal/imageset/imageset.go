// Package imageset holds the ordered, immutable list of images a session
// walks through, together with a cursor whose invariant is checked after
// every operation.
package imageset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"picsort/internal/errors"

	"github.com/gobwas/glob"
)

// DefaultExtensions is the allow-list used when none is configured.
var DefaultExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp"}

// NoCursor is the cursor value of an empty set.
const NoCursor = -1

// Matcher decides whether a file name is an image the session handles.
type Matcher struct {
	pattern glob.Glob
	source  string
}

// NewMatcher compiles an extension allow-list into a case-insensitive
// "*.{png,jpg,...}" glob.
func NewMatcher(extensions []string) (*Matcher, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	cleaned := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			cleaned = append(cleaned, ext)
		}
	}
	source := "*.{" + strings.Join(cleaned, ",") + "}"
	g, err := glob.Compile(source)
	if err != nil {
		return nil, errors.NewConfigError("invalid extension list", source, errors.InvalidConfig, err)
	}
	return &Matcher{pattern: g, source: source}, nil
}

// Match reports whether name has an allowed extension.
func (m *Matcher) Match(name string) bool {
	return m.pattern.Match(strings.ToLower(filepath.Base(name)))
}

// String returns the compiled pattern.
func (m *Matcher) String() string {
	return m.source
}

// Set is an ordered sequence of image paths with a cursor. The zero value is
// an empty set. Sets are never modified in place: every operation returns a
// new Set sharing no mutable state with the receiver.
type Set struct {
	paths  []string
	cursor int
}

// Empty returns a set with no images.
func Empty() Set {
	return Set{cursor: NoCursor}
}

// New builds a set from paths, sorting them and dropping duplicates. The
// cursor starts at 0.
func New(paths []string) Set {
	sorted := make([]string, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			sorted = append(sorted, p)
		}
	}
	sort.Strings(sorted)

	s := Set{paths: sorted, cursor: 0}
	if len(sorted) == 0 {
		s.cursor = NoCursor
	}
	s.mustValidate()
	return s
}

// Scan lists dir non-recursively and keeps regular files accepted by m.
func Scan(dir string, m *Matcher) (Set, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), errors.NewFileError("directory not found", dir, errors.FileNotFound, err)
		}
		return Empty(), errors.NewFileError("error accessing directory", dir, errors.FileAccessDenied, err)
	}
	if !info.IsDir() {
		return Empty(), errors.NewFileError("path is not a directory", dir, errors.InvalidPath, nil)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Empty(), errors.NewFileError("error reading directory", dir, errors.FileAccessDenied, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !m.Match(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return New(paths), nil
}

// Len returns the number of images.
func (s Set) Len() int {
	return len(s.paths)
}

// IsEmpty reports whether the set has no images.
func (s Set) IsEmpty() bool {
	return len(s.paths) == 0
}

// Cursor returns the current index, or NoCursor when empty.
func (s Set) Cursor() int {
	if len(s.paths) == 0 {
		return NoCursor
	}
	return s.cursor
}

// Current returns the path under the cursor.
func (s Set) Current() (string, bool) {
	if len(s.paths) == 0 {
		return "", false
	}
	return s.paths[s.cursor], true
}

// Paths returns a copy of the ordered paths.
func (s Set) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Next moves the cursor forward, wrapping to the first image.
func (s Set) Next() Set {
	return s.step(1)
}

// Previous moves the cursor back, wrapping to the last image.
func (s Set) Previous() Set {
	return s.step(-1)
}

func (s Set) step(delta int) Set {
	n := len(s.paths)
	if n == 0 {
		return s
	}
	next := Set{paths: s.paths, cursor: ((s.cursor+delta)%n + n) % n}
	next.mustValidate()
	return next
}

// Seek moves the cursor to i, modulo the set length.
func (s Set) Seek(i int) Set {
	n := len(s.paths)
	if n == 0 {
		return s
	}
	next := Set{paths: s.paths, cursor: (i%n + n) % n}
	next.mustValidate()
	return next
}

// RemoveCurrent drops the image under the cursor. The cursor keeps its index,
// which now points at the following image, and wraps to 0 past the end.
func (s Set) RemoveCurrent() Set {
	n := len(s.paths)
	if n == 0 {
		return s
	}
	paths := make([]string, 0, n-1)
	paths = append(paths, s.paths[:s.cursor]...)
	paths = append(paths, s.paths[s.cursor+1:]...)

	next := Set{paths: paths, cursor: s.cursor}
	switch {
	case len(paths) == 0:
		next.cursor = NoCursor
	case next.cursor >= len(paths):
		next.cursor = 0
	}
	next.mustValidate()
	return next
}

// Validate checks the cursor invariant.
func (s Set) Validate() error {
	n := len(s.paths)
	if n == 0 {
		if s.cursor != NoCursor && s.cursor != 0 {
			return fmt.Errorf("cursor %d on empty set", s.cursor)
		}
		return nil
	}
	if s.cursor < 0 || s.cursor >= n {
		return fmt.Errorf("cursor %d out of range [0, %d)", s.cursor, n)
	}
	return nil
}

func (s Set) mustValidate() {
	if err := s.Validate(); err != nil {
		panic("imageset: " + err.Error())
	}
}
