// Package status renders the one-line status bar of the workspace.
package status

import (
	"github.com/drake/portal/ui/style"
	"github.com/drake/portal/ui/util"
)

// Level classifies the current message.
type Level int

const (
	LevelInfo Level = iota
	LevelLoading
	LevelError
)

// String returns a human-readable representation of the level.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelLoading:
		return "loading"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Bar displays the latest message on the left and context (locale, API
// host) on the right.
type Bar struct {
	text    string
	level   Level
	context string
	width   int
	styles  style.Styles
}

// New creates a new status bar.
func New(styles style.Styles) Bar {
	return Bar{styles: styles}
}

// SetWidth updates the status bar width.
func (s *Bar) SetWidth(w int) {
	s.width = w
}

// SetContext sets the right-hand text.
func (s *Bar) SetContext(text string) {
	s.context = text
}

// Info shows a plain message.
func (s *Bar) Info(text string) { s.set(LevelInfo, text) }

// Loading shows a progress message.
func (s *Bar) Loading(text string) { s.set(LevelLoading, text) }

// Error shows an error message.
func (s *Bar) Error(text string) { s.set(LevelError, text) }

// Clear removes the message.
func (s *Bar) Clear() { s.set(LevelInfo, "") }

func (s *Bar) set(level Level, text string) {
	s.level = level
	s.text = text
}

// Text returns the current message.
func (s *Bar) Text() string { return s.text }

// Level returns the level of the current message.
func (s *Bar) Level() Level { return s.level }

// View renders the status bar.
func (s *Bar) View() string {
	var left string
	switch s.level {
	case LevelError:
		left = s.styles.Error.Render("● " + s.text)
	case LevelLoading:
		left = s.styles.Warning.Render("● " + s.text)
	default:
		if s.text != "" {
			left = s.styles.StatusBar.Render(s.text)
		}
	}
	right := s.styles.Muted.Render(s.context)

	width := s.width
	if width <= 0 {
		width = util.VisibleLen(left) + util.VisibleLen(right) + 1
	}
	return util.Spread(left, right, width)
}
