package dropdown

import (
	"fmt"
	"reflect"
)

// Options configures a dropdown. Everything here is owned by the caller and
// treated as immutable for one render cycle.
type Options[T any] struct {
	// Items is the candidate set, in display order. Nil or empty means
	// nothing can be selected. The dropdown never modifies it.
	Items []T

	// Compare matches the controlled value against candidates.
	// Defaults to structural equality (reflect.DeepEqual).
	Compare func(a, b T) bool

	// Display produces the label shown for an item.
	// Defaults to fmt.Sprint.
	Display func(item T) string

	// Filter decides whether an item matches the search text.
	// Nil disables filtering: every item is always visible.
	Filter func(item T, search string) bool

	// Highlight returns the rune positions of a label to emphasise for the
	// search text. Nil disables match highlighting. It should agree with
	// Filter; see FuzzyHighlight, ContainsHighlight and FoldHighlight.
	Highlight func(label, search string) []int

	// Presentation only.
	RoundedL bool
	RoundedR bool
	BgWhite  bool

	// Disabled rejects every selection-changing operation.
	Disabled bool

	// Terminal rendering
	Placeholder string // Shown when nothing is selected
	EmptyText   string // Shown when no items are visible (default: "No matches")
	SearchLabel string // Prefix of the search line (default: "Search: ")
	MaxVisible  int    // Maximum rows in the open list (default: 8)
	Width       int    // Field width in cells, including border (default: 32)
}

// DefaultCompare is the equality used when Options.Compare is nil.
func DefaultCompare[T any](a, b T) bool {
	return reflect.DeepEqual(a, b)
}

// DefaultDisplay is the label func used when Options.Display is nil.
func DefaultDisplay[T any](item T) string {
	return fmt.Sprint(item)
}

func (o Options[T]) withDefaults() Options[T] {
	if o.Compare == nil {
		o.Compare = DefaultCompare[T]
	}
	if o.Display == nil {
		o.Display = DefaultDisplay[T]
	}
	if o.EmptyText == "" {
		o.EmptyText = "No matches"
	}
	if o.SearchLabel == "" {
		o.SearchLabel = "Search: "
	}
	if o.MaxVisible <= 0 {
		o.MaxVisible = 8
	}
	if o.Width <= 0 {
		o.Width = 32
	}
	return o
}
