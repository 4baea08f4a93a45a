//go:build nogui
// +build nogui

package gui

import (
	"fmt"

	"picsort/internal/config"
)

// Run is a stub implementation for builds with GUI disabled
func Run(cfg *config.Config, opts Options) error {
	return fmt.Errorf("GUI not available in this build, use the tui command instead")
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}
