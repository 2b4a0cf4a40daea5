package dropdown

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func typeText(m *Model[string], s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestUpdateIgnoredWithoutFocus(t *testing.T) {
	m := newStrings(Options[string]{Items: []string{"apple"}})
	m.Update(keyMsg(tea.KeyEnter))
	if m.IsOpen() {
		t.Fatal("unfocused dropdown should ignore keys")
	}
}

func TestUpdateKeyboardSelection(t *testing.T) {
	m := newStrings(Options[string]{
		Items:  []string{"apple", "banana", "cherry"},
		Filter: Contains(DefaultDisplay[string]),
	})
	var rec recorder[string]
	rec.attach(m)
	m.Focus()

	m.Update(keyMsg(tea.KeyEnter))
	if !m.IsOpen() {
		t.Fatal("expected enter to open")
	}

	typeText(m, "an")
	if m.SearchText() != "an" {
		t.Fatalf("expected search text an, got %q", m.SearchText())
	}
	if got := texts(m.Visible()); !equal(got, []string{"banana"}) {
		t.Fatalf("expected [banana], got %v", got)
	}

	m.Update(keyMsg(tea.KeyEnter))
	if len(rec.modelValues) != 1 || rec.modelValues[0] != "banana" {
		t.Fatalf("expected banana selected, got %v", rec.modelValues)
	}
	if m.IsOpen() {
		t.Error("expected closed after selection")
	}
}

func TestUpdateEnterWithNoMatches(t *testing.T) {
	m := newStrings(Options[string]{
		Items:  []string{"apple"},
		Filter: Contains(DefaultDisplay[string]),
	})
	var rec recorder[string]
	rec.attach(m)
	m.Focus()
	m.Open()
	typeText(m, "zz")

	m.Update(keyMsg(tea.KeyEnter))
	if len(rec.order) != 0 {
		t.Fatalf("expected no events, got %v", rec.order)
	}
	if !m.IsOpen() {
		t.Error("expected dropdown to stay open")
	}
}

func TestUpdateEscDismisses(t *testing.T) {
	m := newStrings(Options[string]{Items: []string{"apple"}})
	m.Focus()
	m.Open()
	m.Update(keyMsg(tea.KeyEsc))
	if m.IsOpen() {
		t.Fatal("expected esc to close")
	}
}

func TestUpdateArrowNavigation(t *testing.T) {
	m := newStrings(Options[string]{Items: []string{"a", "b", "c"}})
	var rec recorder[string]
	rec.attach(m)
	m.Focus()
	m.Open()

	m.Update(keyMsg(tea.KeyDown))
	m.Update(keyMsg(tea.KeyDown))
	m.Update(keyMsg(tea.KeyEnter))
	if len(rec.modelValues) != 1 || rec.modelValues[0] != "c" {
		t.Fatalf("expected c, got %v", rec.modelValues)
	}
}

func TestUpdateClearKey(t *testing.T) {
	m := newStrings(Options[string]{Items: []string{"a"}})
	var rec recorder[string]
	rec.attach(m)
	m.Focus()
	m.SetModelValue("a")

	m.Update(keyMsg(tea.KeyCtrlX))
	if rec.cleared != 1 {
		t.Fatalf("expected clear notification, got %v", rec.order)
	}
}

func TestViewClosedShowsPlaceholderAndValue(t *testing.T) {
	m := newStrings(Options[string]{
		Items:       []string{"apple", "banana"},
		Placeholder: "Pick a fruit",
		Width:       24,
	})
	if !strings.Contains(m.View(), "Pick a fruit") {
		t.Errorf("expected placeholder in %q", m.View())
	}

	m.SetModelValue("banana")
	view := m.View()
	if !strings.Contains(view, "banana") {
		t.Errorf("expected selected label in %q", view)
	}
	if w := lipgloss.Width(view); w != 24 {
		t.Errorf("expected width 24, got %d", w)
	}
}

func TestViewCorners(t *testing.T) {
	m := newStrings(Options[string]{RoundedL: true})
	view := m.View()
	if !strings.Contains(view, "╭") || strings.Contains(view, "╮") {
		t.Errorf("expected rounded left corners only, got\n%s", view)
	}

	m = newStrings(Options[string]{RoundedL: true, RoundedR: true})
	view = m.View()
	if !strings.Contains(view, "╭") || !strings.Contains(view, "╯") {
		t.Errorf("expected rounded corners on both sides, got\n%s", view)
	}
}

func TestViewOpenListsItemsAndMarksSelection(t *testing.T) {
	m := newStrings(Options[string]{Items: []string{"apple", "banana"}})
	m.SetModelValue("banana")
	m.Open()

	view := m.View()
	for _, want := range []string{"apple", "banana", "✓"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in\n%s", want, view)
		}
	}
}

func TestViewOpenEmpty(t *testing.T) {
	m := newStrings(Options[string]{EmptyText: "Nothing here"})
	m.Open()
	if !strings.Contains(m.View(), "Nothing here") {
		t.Errorf("expected empty text in\n%s", m.View())
	}
}

func TestViewScrollIndicator(t *testing.T) {
	m := newStrings(Options[string]{
		Items:      []string{"a", "b", "c", "d", "e"},
		MaxVisible: 2,
	})
	m.Open()
	if !strings.Contains(m.View(), "3 more") {
		t.Errorf("expected scroll indicator in\n%s", m.View())
	}
}

func TestViewTruncatesLongLabels(t *testing.T) {
	m := newStrings(Options[string]{Width: 16})
	m.SetModelValue(strings.Repeat("x", 100))
	if w := lipgloss.Width(m.View()); w != 16 {
		t.Fatalf("expected width 16, got %d", w)
	}
}

func TestViewHighlightFollowsOption(t *testing.T) {
	var calls []string
	m := newStrings(Options[string]{
		Items:  []string{"Meta-Store", "Archive"},
		Filter: Fold(DefaultDisplay[string]),
		Highlight: func(label, search string) []int {
			calls = append(calls, label+"|"+search)
			return FoldHighlight(label, search)
		},
	})
	m.Focus()
	m.Open()
	typeText(m, "store")
	m.View()

	if len(calls) != 1 || calls[0] != "Meta-Store|store" {
		t.Fatalf("expected one highlight call for the match, got %v", calls)
	}
}

func TestHighlightFuncs(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(string, string) []int
		label  string
		search string
		want   []int
	}{
		{"fold", FoldHighlight, "Meta-Store", "store", []int{5, 6, 7, 8, 9}},
		{"contains case", ContainsHighlight, "Meta-Store", "store", nil},
		{"contains", ContainsHighlight, "Meta-Store", "Store", []int{5, 6, 7, 8, 9}},
		{"runes", FoldHighlight, "Café Bar", "é b", []int{3, 4, 5}},
		{"empty search", FoldHighlight, "abc", "", nil},
		{"longer than label", ContainsHighlight, "ab", "abc", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(tt.label, tt.search)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
