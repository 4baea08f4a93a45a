package styles

import (
	"picsort/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the core UI styles
type Theme struct {
	App     lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Help    lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Panel   lipgloss.Style
}

// Default is the theme used when no configuration is given
var Default = New(nil)

// New builds a theme from the configured colors, falling back to the
// default palette for any color left empty.
func New(cfg *config.Config) Theme {
	palette := config.GetTheme("default")
	if cfg != nil {
		palette = config.GetTheme(cfg.Theme.Name)
		override := map[string]string{
			"primary": cfg.Theme.Primary,
			"success": cfg.Theme.Success,
			"error":   cfg.Theme.Error,
			"info":    cfg.Theme.Info,
		}
		for k, v := range override {
			if v != "" {
				palette[k] = v
			}
		}
	}

	return Theme{
		App: lipgloss.NewStyle().
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(palette["primary"])).
			MarginBottom(1),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
		Value: lipgloss.NewStyle().
			Bold(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5A9")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(palette["success"])).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette["error"])).
			Bold(true),
		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette["info"])),
		Panel: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(palette["primary"])),
	}
}
