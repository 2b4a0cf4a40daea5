package dropdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const (
	caretClosed = "▾"
	caretOpen   = "▴"
	ellipsis    = "…"
)

// Update handles key input while focused.
func (m *Model[T]) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		// Cursor blink and similar messages for the search field
		if m.state == Open {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return cmd
		}
		return nil
	}
	if !m.focused {
		return nil
	}

	if m.state == Closed {
		switch {
		case key.Matches(keyMsg, m.keys.Open):
			m.Open()
		case key.Matches(keyMsg, m.keys.Clear):
			m.Clear()
		}
		return nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Dismiss):
		m.Dismiss()
		return nil

	case key.Matches(keyMsg, m.keys.Up):
		m.CursorUp()
		return nil

	case key.Matches(keyMsg, m.keys.Down):
		m.CursorDown()
		return nil

	case key.Matches(keyMsg, m.keys.Select):
		if item, ok := m.CursorItem(); ok {
			m.Select(item)
		}
		return nil

	case key.Matches(keyMsg, m.keys.Clear):
		m.Clear()
		m.Dismiss()
		return nil
	}

	// Everything else edits the search text
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.cursor = 0
		m.scroll = 0
	}
	return cmd
}

// View renders the field and, while open, the search line and item list.
func (m *Model[T]) View() string {
	field := m.viewField()
	if m.state != Open {
		return field
	}
	return lipgloss.JoinVertical(lipgloss.Left, field, m.viewList())
}

// Height returns the rendered height of the current view.
func (m *Model[T]) Height() int {
	return lipgloss.Height(m.View())
}

// border returns the frame with the corners picked by RoundedL/RoundedR.
func (m *Model[T]) border() lipgloss.Border {
	b := lipgloss.NormalBorder()
	if m.opts.RoundedL {
		b.TopLeft = "╭"
		b.BottomLeft = "╰"
	}
	if m.opts.RoundedR {
		b.TopRight = "╮"
		b.BottomRight = "╯"
	}
	return b
}

func (m *Model[T]) borderColor() lipgloss.Color {
	switch {
	case m.opts.Disabled:
		return m.styles.DisabledBorderColor
	case m.focused:
		return m.styles.FocusedBorderColor
	default:
		return m.styles.BorderColor
	}
}

// innerWidth is the content width inside border and padding.
func (m *Model[T]) innerWidth() int {
	return max(1, m.opts.Width-4)
}

func (m *Model[T]) viewField() string {
	s := m.styles.Field
	switch {
	case m.opts.Disabled:
		s = m.styles.FieldDisabled
	case m.opts.BgWhite:
		s = m.styles.FieldWhite
	case m.focused:
		s = m.styles.FieldFocused
	}
	s = s.Border(m.border()).
		BorderForeground(m.borderColor()).
		Width(m.opts.Width - 2)

	width := m.innerWidth()
	caret := caretClosed
	var body string

	if m.state == Open {
		caret = caretOpen
		m.search.Width = max(1, width-runewidth.StringWidth(m.search.Prompt)-2)
		body = m.search.View()
	} else {
		label, ok := m.label()
		if !ok {
			label = m.opts.Placeholder
		}
		label = ansi.Truncate(label, width-2, ellipsis)
		if ok {
			body = label
		} else {
			body = m.styles.Placeholder.Render(label)
		}
		body += strings.Repeat(" ", max(0, width-2-runewidth.StringWidth(label)))
	}

	return s.Render(body + " " + m.styles.Caret.Render(caret))
}

// label returns the display text of the controlled value.
func (m *Model[T]) label() (string, bool) {
	if !m.hasValue {
		return "", false
	}
	if idx := m.SelectedIndex(); idx >= 0 {
		return m.cache.at(m.opts.Items, idx, m.opts.Display).Text(), true
	}
	// Value not among the items: still show what the host holds
	return m.opts.Display(m.value), true
}

func (m *Model[T]) viewList() string {
	width := m.innerWidth()
	frame := m.styles.ListBorder.
		Border(m.border()).
		BorderForeground(m.borderColor()).
		Width(m.opts.Width - 2)

	visible := m.Visible()
	if len(visible) == 0 {
		return frame.Render(m.styles.Muted.Render(ansi.Truncate(m.opts.EmptyText, width, ellipsis)))
	}

	selected := m.SelectedIndex()
	search := m.SearchText()

	start := m.scroll
	end := min(start+m.opts.MaxVisible, len(visible))

	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		w := visible[i]
		lines = append(lines, m.renderRow(w, width, i == m.cursor, w.Index() == selected, search))
	}
	if rest := len(visible) - end; rest > 0 {
		lines = append(lines, m.styles.ScrollIndicator.Render(fmt.Sprintf("  ↓ %d more", rest)))
	}

	return frame.Render(strings.Join(lines, "\n"))
}

func (m *Model[T]) renderRow(w Wrapper[T], width int, cursor, selected bool, search string) string {
	prefix := "  "
	if selected {
		prefix = m.styles.SelectedMarker.Render("✓ ")
	}

	text := ansi.Truncate(w.Text(), width-2, ellipsis)

	var positions []int
	if search != "" && m.opts.Highlight != nil {
		positions = m.opts.Highlight(text, search)
	}
	matchSet := make(map[int]bool, len(positions))
	for _, p := range positions {
		matchSet[p] = true
	}

	normal := m.styles.ItemNormal
	if selected {
		normal = m.styles.ItemSelected
	}

	var b strings.Builder
	idx := 0
	for _, r := range text {
		ch := string(r)
		switch {
		case matchSet[idx] && cursor:
			b.WriteString(m.styles.ItemMatchCursor.Render(ch))
		case matchSet[idx]:
			b.WriteString(m.styles.ItemMatch.Render(ch))
		case cursor:
			b.WriteString(m.styles.ItemCursor.Render(ch))
		default:
			b.WriteString(normal.Render(ch))
		}
		idx++
	}

	pad := strings.Repeat(" ", max(0, width-2-runewidth.StringWidth(text)))
	if cursor {
		pad = m.styles.ItemCursor.Render(pad)
	}
	return prefix + b.String() + pad
}
