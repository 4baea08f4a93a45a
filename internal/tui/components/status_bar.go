package components

import (
	"picsort/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatusKind selects the style of the status text
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
)

// StatusBar shows the latest notice and, while the source folder is being
// watched, a spinner with the watched folder.
type StatusBar struct {
	theme    styles.Theme
	text     string
	kind     StatusKind
	watching string
	spinner  spinner.Model
}

func NewStatusBar(theme styles.Theme) *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Help

	return &StatusBar{
		theme:   theme,
		spinner: s,
	}
}

// SetWatching shows the spinner with dir, or hides it when dir is empty.
func (s *StatusBar) SetWatching(dir string) {
	s.watching = dir
}

// Watching returns the folder shown next to the spinner.
func (s *StatusBar) Watching() string {
	return s.watching
}

func (s *StatusBar) SetText(text string, kind StatusKind) {
	s.text = text
	s.kind = kind
}

func (s *StatusBar) Clear() {
	s.text = ""
	s.kind = StatusInfo
}

func (s *StatusBar) Text() string {
	return s.text
}

func (s *StatusBar) Kind() StatusKind {
	return s.kind
}

// Tick starts the spinner.
func (s *StatusBar) Tick() tea.Cmd {
	return s.spinner.Tick
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.watching == "" {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

func (s *StatusBar) View() string {
	var parts []string
	if s.text != "" {
		switch s.kind {
		case StatusSuccess:
			parts = append(parts, s.theme.Success.Render(s.text))
		case StatusError:
			parts = append(parts, s.theme.Error.Render(s.text))
		default:
			parts = append(parts, s.theme.Info.Render(s.text))
		}
	}
	if s.watching != "" {
		parts = append(parts, s.theme.Help.Render(s.spinner.View()+" watching "+s.watching))
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Copy returns a copy of the StatusBar
func (s *StatusBar) Copy() *StatusBar {
	c := *s
	return &c
}
