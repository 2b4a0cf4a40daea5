package util

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// VisibleLen returns the visible width of a string (excluding ANSI codes).
func VisibleLen(s string) int {
	return ansi.StringWidth(s)
}

// Spread places left and right at the edges of width cells. When both do
// not fit, right is dropped and left is truncated.
func Spread(left, right string, width int) string {
	pad := width - VisibleLen(left) - VisibleLen(right)
	if pad < 1 {
		return ansi.Truncate(left, max(0, width), "…")
	}
	return left + strings.Repeat(" ", pad) + right
}
