// Package notify turns session outcomes into the messages users see, and
// defines the surface UI adapters implement to show them.
package notify

import (
	"fmt"
	"sync"

	"picsort/internal/config"
	"picsort/internal/errors"
	"picsort/internal/log"
)

// Fixed user-facing texts.
const (
	AllSortedTitle   = "Done"
	AllSortedMessage = "All images sorted"
	ClearedMessage   = "Output folders cleared. Please select a new destination for the next image."
)

// Notifier shows messages to the user. Info and Error block until
// acknowledged where the surface supports it; Banner never blocks and
// dismisses itself.
type Notifier interface {
	Info(title, message string)
	Error(err error)
	Banner(message string)
}

// Message returns the text shown for err in the given mode.
func Message(mode string, err error) string {
	switch errors.KindOf(err) {
	case errors.NoDirectorySelected:
		return "No folder selected"
	case errors.EmptyImageSet:
		return "No images found in the selected directory"
	case errors.EmptyLabelInput:
		if mode == config.ModeCopy {
			return "Please enter at least one athlete number"
		}
		return "Folder name cannot be empty"
	case errors.DestinationNotSelected:
		return "No destination directory selected"
	case errors.InvalidLabel:
		var labelErr *errors.LabelError
		if errors.As(err, &labelErr) {
			return fmt.Sprintf("%q cannot be used as a folder name", labelErr.Label())
		}
	case errors.InvalidState:
		return AllSortedMessage
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// Title returns the dialog title for err.
func Title(err error) string {
	switch errors.KindOf(err) {
	case errors.EmptyImageSet, errors.InvalidState:
		return "Info"
	case errors.NoDirectorySelected, errors.EmptyLabelInput, errors.DestinationNotSelected, errors.InvalidLabel:
		return "Warning"
	default:
		return "Error"
	}
}

// WatchNotice summarises external changes seen in the source folder.
func WatchNotice(changes int) string {
	if changes == 1 {
		return "1 external change in source folder"
	}
	return fmt.Sprintf("%d external changes in source folder", changes)
}

// LogNotifier writes every message to the application log. The scan command
// reports the files it skips through it.
type LogNotifier struct{}

// Info implements Notifier.
func (LogNotifier) Info(title, message string) {
	log.LogWithFields(log.F("title", title)).Info(message)
}

// Error implements Notifier.
func (LogNotifier) Error(err error) {
	log.LogWithError(err).Error("Operation failed")
}

// Banner implements Notifier.
func (LogNotifier) Banner(message string) {
	log.Info("%s", message)
}

// Recorder keeps every message it receives. Tests use it in place of a UI.
type Recorder struct {
	mu      sync.Mutex
	Infos   []string
	Errors  []error
	Banners []string
}

// Info implements Notifier.
func (r *Recorder) Info(title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Infos = append(r.Infos, message)
}

// Error implements Notifier.
func (r *Recorder) Error(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, err)
}

// Banner implements Notifier.
func (r *Recorder) Banner(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Banners = append(r.Banners, message)
}

// LastBanner returns the most recent banner, or "".
func (r *Recorder) LastBanner() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Banners) == 0 {
		return ""
	}
	return r.Banners[len(r.Banners)-1]
}

var (
	_ Notifier = LogNotifier{}
	_ Notifier = (*Recorder)(nil)
)
