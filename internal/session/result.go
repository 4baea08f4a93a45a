package session

import (
	"fmt"
	"path/filepath"
	"strings"

	"picsort/internal/config"
	"picsort/internal/fileops"
)

// Filed records what happened for one label of a commit.
type Filed struct {
	Label       string
	Destination string // Label folder
	Outcome     fileops.Outcome
	Err         error
}

// CommitResult describes a commit, including the labels filed before a
// copy-mode failure.
type CommitResult struct {
	Mode      string
	Image     string
	Labels    []string
	Filed     []Filed
	Remaining int
	Done      bool
}

// Succeeded returns the labels whose file operation completed.
func (r CommitResult) Succeeded() []string {
	var labels []string
	for _, f := range r.Filed {
		if f.Err == nil {
			labels = append(labels, f.Label)
		}
	}
	return labels
}

// DryRun reports whether every file operation was only simulated.
func (r CommitResult) DryRun() bool {
	if len(r.Filed) == 0 {
		return false
	}
	for _, f := range r.Filed {
		if !f.Outcome.DryRun {
			return false
		}
	}
	return true
}

// Banner returns the success message shown after a commit.
func (r CommitResult) Banner() string {
	var msg string
	if r.Mode == config.ModeCopy {
		msg = "Image sorted for: " + strings.Join(r.Succeeded(), ", ")
	} else {
		dest := ""
		if len(r.Filed) > 0 {
			dest = r.Filed[0].Outcome.Destination
			if dest == "" {
				dest = filepath.Join(r.Filed[0].Destination, filepath.Base(r.Image))
			}
		}
		msg = "Image moved to " + dest
	}
	if r.DryRun() {
		msg = "[dry run] " + msg
	}
	return msg
}

// Summary is a one-line description for logs and the terminal UI.
func (r CommitResult) Summary() string {
	return fmt.Sprintf("%s: %d label(s), %d remaining", filepath.Base(r.Image), len(r.Succeeded()), r.Remaining)
}
