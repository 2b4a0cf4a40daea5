package dropdown

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the dropdown key bindings.
type KeyMap struct {
	Open    key.Binding
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Dismiss key.Binding
	Clear   key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open: key.NewBinding(
			key.WithKeys("enter", " ", "down"),
			key.WithHelp("enter", "open"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "clear"),
		),
	}
}

// ShortHelp returns the bindings relevant to the current state.
func (m *Model[T]) ShortHelp() []key.Binding {
	if m.state == Open {
		return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Dismiss, m.keys.Clear}
	}
	return []key.Binding{m.keys.Open, m.keys.Clear}
}

// SetKeyMap replaces the key bindings.
func (m *Model[T]) SetKeyMap(km KeyMap) {
	m.keys = km
}
