// Package dropdown implements a generic single-select dropdown over an
// arbitrary item type.
//
// The dropdown is a controlled component. The host owns the selected value
// and pushes it in with SetModelValue; the dropdown never stores a selection
// of its own and only reports changes through two independent listener
// channels:
//
//   - model value listeners (OnModelValue) form the two-way binding: the host
//     is expected to store the payload and pass it back on the next render.
//   - update listeners (OnUpdate) are for observers that want change
//     notifications without taking part in the binding.
//
// Equality, labels and search matching are pluggable through Options.
// Functions supplied by the caller run synchronously; a panic inside one of
// them reaches the caller unchanged.
package dropdown

import (
	"iter"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/drake/portal/ui/style"
)

// State is the open/closed state of the dropdown.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// ModelValueFunc receives update:modelValue notifications.
// ok is false when the selection was cleared.
type ModelValueFunc[T any] func(value T, ok bool)

// UpdateFunc receives update notifications.
type UpdateFunc[T any] func(value T)

// Model is a generic dropdown widget.
type Model[T any] struct {
	opts  Options[T]
	cache wrapperCache[T]

	// Controlled value mirror, set by the host each render
	value    T
	hasValue bool

	state   State
	search  textinput.Model
	cursor  int // index into the visible list
	scroll  int
	focused bool

	onModelValue []ModelValueFunc[T]
	onUpdate     []UpdateFunc[T]

	keys   KeyMap
	styles style.Styles
}

// New creates a closed dropdown with the given options.
func New[T any](opts Options[T], styles style.Styles) *Model[T] {
	opts = opts.withDefaults()

	ti := textinput.New()
	ti.Prompt = opts.SearchLabel
	ti.PromptStyle = styles.SearchPrompt
	ti.CharLimit = 256

	m := &Model[T]{
		opts:   opts,
		search: ti,
		keys:   DefaultKeyMap(),
		styles: styles,
	}
	m.cache.reset(opts.Items, opts.Compare)
	return m
}

// --- Configuration ---

// SetOptions replaces the whole configuration. Items are treated as a
// fresh snapshot and every cached label is dropped, since funcs cannot be
// compared. Hosts that only refresh the list should call SetItems.
func (m *Model[T]) SetOptions(opts Options[T]) {
	opts = opts.withDefaults()
	m.opts = opts
	m.cache.invalidate()
	m.cache.reset(opts.Items, opts.Compare)
	m.search.Prompt = opts.SearchLabel
	m.clampCursor()
}

// SetItems replaces the candidate list. The slice is not copied or
// modified; it is read as a snapshot until the next SetItems.
func (m *Model[T]) SetItems(items []T) {
	m.opts.Items = items
	m.cache.reset(items, m.opts.Compare)
	m.clampCursor()
}

// Items returns the current candidate list.
func (m *Model[T]) Items() []T {
	return m.opts.Items
}

// SetDisplay swaps the label func. Every wrapper is rebuilt on next use.
func (m *Model[T]) SetDisplay(display func(T) string) {
	if display == nil {
		display = DefaultDisplay[T]
	}
	m.opts.Display = display
	m.cache.invalidate()
}

// SetCompare swaps the equality func used for matching the controlled value.
func (m *Model[T]) SetCompare(compare func(a, b T) bool) {
	if compare == nil {
		compare = DefaultCompare[T]
	}
	m.opts.Compare = compare
}

// SetFilter swaps the search predicate. Nil disables filtering.
func (m *Model[T]) SetFilter(filter func(item T, search string) bool) {
	m.opts.Filter = filter
	m.clampCursor()
}

// SetDisabled toggles the disabled flag. An open dropdown stays open but
// rejects selection until re-enabled or dismissed.
func (m *Model[T]) SetDisabled(disabled bool) {
	m.opts.Disabled = disabled
}

// Disabled reports whether selection changes are rejected.
func (m *Model[T]) Disabled() bool {
	return m.opts.Disabled
}

// SetWidth sets the field width in cells.
func (m *Model[T]) SetWidth(w int) {
	if w > 0 {
		m.opts.Width = w
	}
}

// --- Controlled value ---

// SetModelValue mirrors the host's current value into the dropdown.
func (m *Model[T]) SetModelValue(v T) {
	m.value = v
	m.hasValue = true
}

// UnsetModelValue mirrors an absent host value.
func (m *Model[T]) UnsetModelValue() {
	var zero T
	m.value = zero
	m.hasValue = false
}

// ModelValue returns the mirrored value and whether one is set.
func (m *Model[T]) ModelValue() (T, bool) {
	return m.value, m.hasValue
}

// OnModelValue registers an update:modelValue listener.
func (m *Model[T]) OnModelValue(fn ModelValueFunc[T]) {
	m.onModelValue = append(m.onModelValue, fn)
}

// OnUpdate registers an update listener.
func (m *Model[T]) OnUpdate(fn UpdateFunc[T]) {
	m.onUpdate = append(m.onUpdate, fn)
}

// --- Selection ---

// IsSelected reports whether item matches the controlled value.
// Always false while no value is set.
func (m *Model[T]) IsSelected(item T) bool {
	if !m.hasValue {
		return false
	}
	return m.opts.Compare(m.value, item)
}

// SelectedIndex returns the position of the first item matching the
// controlled value, or -1. When several items match, the first one in list
// order is "the" selected entry.
func (m *Model[T]) SelectedIndex() int {
	if !m.hasValue {
		return -1
	}
	for i, item := range m.opts.Items {
		if m.opts.Compare(m.value, item) {
			return i
		}
	}
	return -1
}

// Select reports item as the new value and closes the dropdown.
// No-op while disabled.
func (m *Model[T]) Select(item T) {
	if m.opts.Disabled {
		return
	}
	for _, fn := range m.onModelValue {
		fn(item, true)
	}
	for _, fn := range m.onUpdate {
		fn(item)
	}
	m.close()
}

// Clear reports an absent value through the model value listeners.
// No-op while disabled.
func (m *Model[T]) Clear() {
	if m.opts.Disabled {
		return
	}
	var zero T
	for _, fn := range m.onModelValue {
		fn(zero, false)
	}
}

// --- State machine ---

// State returns the current open/closed state.
func (m *Model[T]) State() State {
	return m.state
}

// IsOpen is shorthand for State() == Open.
func (m *Model[T]) IsOpen() bool {
	return m.state == Open
}

// SearchText returns the search text; always empty while closed.
func (m *Model[T]) SearchText() string {
	if m.state != Open {
		return ""
	}
	return m.search.Value()
}

// Open opens the dropdown with an empty search. No-op while disabled or
// already open.
func (m *Model[T]) Open() {
	if m.opts.Disabled || m.state == Open {
		return
	}
	m.state = Open
	m.search.SetValue("")
	m.search.Focus()
	m.cursor = 0
	m.scroll = 0
	if idx := m.SelectedIndex(); idx >= 0 {
		// Start on the selected entry when it is visible
		pos := 0
		for w := range m.VisibleItems() {
			if w.Index() == idx {
				m.cursor = pos
				break
			}
			pos++
		}
	}
	m.adjustScroll()
}

// SetSearch edits the search text. Only meaningful while open.
func (m *Model[T]) SetSearch(text string) {
	if m.state != Open {
		return
	}
	m.search.SetValue(text)
	m.cursor = 0
	m.scroll = 0
}

// Dismiss closes the dropdown without selecting.
func (m *Model[T]) Dismiss() {
	m.close()
}

// Focus marks the dropdown as focused.
func (m *Model[T]) Focus() {
	m.focused = true
}

// Blur removes focus; losing focus closes the dropdown.
func (m *Model[T]) Blur() {
	m.focused = false
	m.close()
}

// Focused reports whether the dropdown has focus.
func (m *Model[T]) Focused() bool {
	return m.focused
}

func (m *Model[T]) close() {
	m.state = Closed
	m.search.Blur()
	m.search.SetValue("")
	m.cursor = 0
	m.scroll = 0
}

// --- Visible items ---

// VisibleItems returns the wrapped items matching the current search text.
func (m *Model[T]) VisibleItems() iter.Seq[Wrapper[T]] {
	return m.Filtered(m.SearchText())
}

// Filtered returns the wrapped items matching search, in source order.
// The sequence is lazy and restartable: every iteration re-reads the current
// snapshot and applies the filter again. Only labels are cached.
func (m *Model[T]) Filtered(search string) iter.Seq[Wrapper[T]] {
	return func(yield func(Wrapper[T]) bool) {
		items := m.opts.Items
		filter := m.opts.Filter
		for i := range items {
			if filter != nil && search != "" && !filter(items[i], search) {
				continue
			}
			if !yield(m.cache.at(items, i, m.opts.Display)) {
				return
			}
		}
	}
}

// Visible collects VisibleItems into a slice.
func (m *Model[T]) Visible() []Wrapper[T] {
	var out []Wrapper[T]
	for w := range m.VisibleItems() {
		out = append(out, w)
	}
	return out
}

// CursorItem returns the item under the cursor while open.
func (m *Model[T]) CursorItem() (T, bool) {
	var zero T
	if m.state != Open {
		return zero, false
	}
	pos := 0
	for w := range m.VisibleItems() {
		if pos == m.cursor {
			return w.Value(), true
		}
		pos++
	}
	return zero, false
}

// CursorUp moves the cursor up with wraparound.
func (m *Model[T]) CursorUp() {
	n := m.visibleCount()
	if n == 0 {
		return
	}
	m.cursor--
	if m.cursor < 0 {
		m.cursor = n - 1
	}
	m.adjustScroll()
}

// CursorDown moves the cursor down with wraparound.
func (m *Model[T]) CursorDown() {
	n := m.visibleCount()
	if n == 0 {
		return
	}
	m.cursor++
	if m.cursor >= n {
		m.cursor = 0
	}
	m.adjustScroll()
}

func (m *Model[T]) visibleCount() int {
	n := 0
	for range m.VisibleItems() {
		n++
	}
	return n
}

func (m *Model[T]) clampCursor() {
	if m.state != Open {
		return
	}
	if n := m.visibleCount(); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	m.adjustScroll()
}

func (m *Model[T]) adjustScroll() {
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	} else if m.cursor >= m.scroll+m.opts.MaxVisible {
		m.scroll = m.cursor - m.opts.MaxVisible + 1
	}
}
