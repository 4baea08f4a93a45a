package gui

import (
	"picsort/internal/fileops"
	"picsort/internal/notify"
	"picsort/internal/watch"
)

// FolderChooser asks the user for a folder and reports the choice through
// done. ok is false when the user cancelled.
type FolderChooser func(title string, done func(path string, ok bool))

// Confirmer asks a yes/no question and reports the answer through done.
type Confirmer func(title, message string, done func(yes bool))

// Options are the per-run inputs of the desktop sorter. Nil fields fall back
// to dialogs on the main window and a fileops.Engine built from the
// configuration.
type Options struct {
	// Source is loaded on start; empty waits for Open Folder.
	Source string
	// Destination is a fixed base folder for move mode; empty asks per label.
	Destination string

	Filer        fileops.Filer
	Watcher      *watch.Watcher
	Notifier     notify.Notifier
	ChooseFolder FolderChooser
	Confirm      Confirmer
}
