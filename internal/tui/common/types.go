package common

import (
	"picsort/internal/metadata"
	"picsort/internal/session"
	"picsort/internal/tui/styles"
	"picsort/pkg/types"
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Session() session.Session
	InputMode() types.Mode
	InputView() string
	// Metadata returns the EXIF panel contents when it should be shown.
	Metadata() (metadata.Result, bool)
	StatusView() string
	HelpView() string
	Theme() styles.Theme
}
