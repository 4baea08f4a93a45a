package fileops

// Outcome describes what happened to one transfer.
type Outcome struct {
	Source      string
	Destination string // Final path, after collision renaming
	Transferred bool
	Skipped     bool // Collision with strategy skip, or source == destination
	DryRun      bool
}

// Filer is the filesystem collaborator of a sorting session.
// It allows fakes in tests.
type Filer interface {
	// CreateDirectories creates a directory and its parents; idempotent.
	CreateDirectories(path string) error

	// Move moves a single file.
	Move(src, dest string) (Outcome, error)

	// CopyPreservingMetadata copies a single file with its mode and mtime.
	CopyPreservingMetadata(src, dest string) (Outcome, error)
}

// Ensure Engine implements the Filer interface
var _ Filer = (*Engine)(nil)
