package tui

import "charm.land/bubbles/v2/key"

// KeyMap defines the editor's keybindings.
type KeyMap struct {
	Save          key.Binding
	Quit          key.Binding
	ForceQuit     key.Binding
	TogglePreview key.Binding
	SwitchFocus   key.Binding
}

// DefaultKeyMap returns the built-in keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit without saving"),
		),
		TogglePreview: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "toggle preview"),
		),
		SwitchFocus: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "switch pane"),
		),
	}
}

// ShortHelp returns the hint line shown under the panes.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.TogglePreview, k.SwitchFocus, k.Quit}
}
