package util

import (
	"sort"
	"strings"
	"unicode"
)

// Match represents a scored fuzzy match result.
type Match struct {
	Index     int    // Original index in input slice
	Text      string // The matched text
	Score     int    // Match quality (higher = better)
	Positions []int  // Matched rune positions (for highlighting)
}

// FuzzyRank filters and ranks items by fuzzy match quality against pattern.
// Returns matches sorted by score (best first), ties broken by original index.
// Empty pattern returns all items in original order.
//
// Pattern is split on spaces - each term must match (AND logic), but order doesn't matter.
// This matches fzf behavior: "bus data" matches "Design internal data bus".
func FuzzyRank(pattern string, items []string) []Match {
	if strings.TrimSpace(pattern) == "" {
		matches := make([]Match, len(items))
		for i, item := range items {
			matches[i] = Match{Index: i, Text: item}
		}
		return matches
	}

	var matches []Match
	for i, item := range items {
		score, positions := FuzzyMatch(pattern, item)
		if score > 0 {
			matches = append(matches, Match{
				Index:     i,
				Text:      item,
				Score:     score,
				Positions: positions,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Index < matches[j].Index
	})

	return matches
}

// FuzzyMatch scores text against a space separated pattern.
// All terms must match for a positive score; positions are merged and sorted.
func FuzzyMatch(pattern, text string) (int, []int) {
	terms := strings.Fields(pattern)
	switch len(terms) {
	case 0:
		return 0, nil
	case 1:
		return FuzzyScore(terms[0], text)
	}

	total := 0
	var positions []int
	seen := make(map[int]bool)

	for _, term := range terms {
		score, pos := FuzzyScore(term, text)
		if score == 0 {
			return 0, nil
		}
		total += score
		for _, p := range pos {
			if !seen[p] {
				seen[p] = true
				positions = append(positions, p)
			}
		}
	}

	sort.Ints(positions)
	return total, positions
}

// FuzzyScore computes a fuzzy match score for pattern against text.
// Returns (score, positions). Score of 0 means no match.
// Positions are rune offsets into text.
//
// Uses fzf-style algorithm: forward scan to verify match exists,
// then backward scan to find the tightest cluster of matches.
func FuzzyScore(pattern, text string) (int, []int) {
	if pattern == "" || text == "" {
		return 0, nil
	}

	textRunes := []rune(text)
	lowerRunes := []rune(strings.ToLower(text))
	patternRunes := []rune(strings.ToLower(pattern))

	// ToLower can change rune count for a handful of scripts; positions
	// would no longer line up with the original text.
	if len(lowerRunes) != len(textRunes) {
		return 0, nil
	}

	// Forward scan: last index where the full pattern can complete
	pIdx := 0
	endIdx := -1
	for i := 0; i < len(lowerRunes) && pIdx < len(patternRunes); i++ {
		if lowerRunes[i] == patternRunes[pIdx] {
			endIdx = i
			pIdx++
		}
	}
	if pIdx < len(patternRunes) {
		return 0, nil
	}

	// Backward scan: tightest match ending at endIdx
	positions := make([]int, len(patternRunes))
	pIdx = len(patternRunes) - 1
	for i := endIdx; i >= 0 && pIdx >= 0; i-- {
		if lowerRunes[i] == patternRunes[pIdx] {
			positions[pIdx] = i
			pIdx--
		}
	}

	score := max(0, 50-positions[0]*3) // early matches win

	for i, pos := range positions {
		if pos == 0 {
			score += 16
		} else {
			prev := textRunes[pos-1]
			if prev == ' ' || prev == '/' || prev == '_' || prev == '-' || prev == '.' || prev == ':' {
				score += 8
			} else if unicode.IsLower(prev) && unicode.IsUpper(textRunes[pos]) {
				score += 7 // CamelCase boundary
			}
		}

		if i > 0 {
			if gap := pos - positions[i-1] - 1; gap == 0 {
				score += 8
			} else {
				score -= 3 + gap
			}
		}
	}

	if score <= 0 {
		score = 1
	}
	return score, positions
}
