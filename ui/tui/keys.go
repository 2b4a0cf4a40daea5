package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/drake/portal/i18n"
	"github.com/drake/portal/ui/components/dropdown"
)

// keyMap holds the workspace-level bindings.
type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Reload key.Binding
	Quit   key.Binding
	Force  key.Binding // ctrl+c, always quits

	// Bindings of the focused dropdown, refreshed before every render
	field []key.Binding
}

func newKeyMap(b *i18n.Bundle, lang string) keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", b.T(lang, "help.next")),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", b.T(lang, "help.prev")),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", b.T(lang, "help.reload")),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", b.T(lang, "help.quit")),
		),
		Force: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

// dropdownKeys returns the dropdown bindings with localised help.
func dropdownKeys(b *i18n.Bundle, lang string) dropdown.KeyMap {
	km := dropdown.DefaultKeyMap()
	km.Open.SetHelp("enter", b.T(lang, "help.open"))
	km.Up.SetHelp("↑", b.T(lang, "help.move"))
	km.Down.SetHelp("↓", b.T(lang, "help.move"))
	km.Select.SetHelp("enter", b.T(lang, "help.select"))
	km.Dismiss.SetHelp("esc", b.T(lang, "help.dismiss"))
	km.Clear.SetHelp("ctrl+x", b.T(lang, "help.clear"))
	return km
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	out := append([]key.Binding(nil), k.field...)
	return append(out, k.Next, k.Reload, k.Quit)
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.field, {k.Next, k.Prev, k.Reload, k.Quit}}
}
