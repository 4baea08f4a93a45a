package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the terminal sorter.
// Letters and digits go to the label input, so every action uses a
// non-printing key.
type KeyMap struct {
	// General
	Help key.Binding
	Quit key.Binding

	// Navigation
	Next     key.Binding
	Previous key.Binding

	// Filing
	Commit            key.Binding
	Cancel            key.Binding
	ClearDestinations key.Binding
	ChangeSource      key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "pgdown", "ctrl+n"),
			key.WithHelp("tab", "next"),
		),
		Previous: key.NewBinding(
			key.WithKeys("shift+tab", "pgup", "ctrl+p"),
			key.WithHelp("shift+tab", "previous"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "sort"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		ClearDestinations: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "change output folder"),
		),
		ChangeSource: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "open folder"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Commit, k.Next, k.Previous, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Commit, k.Cancel, k.Next, k.Previous},
		{k.ClearDestinations, k.ChangeSource, k.Help, k.Quit},
	}
}
