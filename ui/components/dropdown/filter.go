package dropdown

import (
	"strings"
	"unicode"

	"github.com/drake/portal/ui/util"
)

// Ready-made Filter funcs. Each matches against the label produced by
// display, so filtering and rendering agree on the text.

// Contains matches items whose label contains the search text verbatim.
func Contains[T any](display func(T) string) func(T, string) bool {
	return func(item T, search string) bool {
		return strings.Contains(display(item), search)
	}
}

// Fold matches items whose label contains the search text, ignoring case.
func Fold[T any](display func(T) string) func(T, string) bool {
	return func(item T, search string) bool {
		return strings.Contains(strings.ToLower(display(item)), strings.ToLower(search))
	}
}

// Fuzzy matches items whose label fuzzy-matches every space separated term
// of the search text. It only decides membership; the list keeps its source
// order.
func Fuzzy[T any](display func(T) string) func(T, string) bool {
	return func(item T, search string) bool {
		if strings.TrimSpace(search) == "" {
			return true
		}
		score, _ := util.FuzzyMatch(search, display(item))
		return score > 0
	}
}

// Highlight funcs matching the filters above.

// FuzzyHighlight marks the runes matched by Fuzzy.
func FuzzyHighlight(label, search string) []int {
	_, positions := util.FuzzyMatch(search, label)
	return positions
}

// ContainsHighlight marks the first verbatim occurrence of search.
func ContainsHighlight(label, search string) []int {
	return runeSpan(label, search, false)
}

// FoldHighlight marks the first case-insensitive occurrence of search.
func FoldHighlight(label, search string) []int {
	return runeSpan(label, search, true)
}

func runeSpan(label, search string, fold bool) []int {
	text, pat := []rune(label), []rune(search)
	if len(pat) == 0 {
		return nil
	}
	eq := func(a, b rune) bool {
		if fold {
			return unicode.ToLower(a) == unicode.ToLower(b)
		}
		return a == b
	}
outer:
	for i := 0; i+len(pat) <= len(text); i++ {
		for j, r := range pat {
			if !eq(text[i+j], r) {
				continue outer
			}
		}
		out := make([]int, len(pat))
		for j := range out {
			out[j] = i + j
		}
		return out
	}
	return nil
}
