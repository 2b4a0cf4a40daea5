package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds all the lipgloss styles for the TUI.
type Styles struct {
	// Layout
	App       lipgloss.Style
	Header    lipgloss.Style
	Label     lipgloss.Style
	Detail    lipgloss.Style
	StatusBar lipgloss.Style

	// Dropdown field (closed state)
	Field         lipgloss.Style
	FieldFocused  lipgloss.Style
	FieldDisabled lipgloss.Style
	FieldWhite    lipgloss.Style // bg-white variant
	Placeholder   lipgloss.Style
	Caret         lipgloss.Style

	// Dropdown list (open state)
	ListBorder          lipgloss.Style
	ItemNormal          lipgloss.Style
	ItemCursor          lipgloss.Style
	ItemSelected        lipgloss.Style // Entry matching the controlled value
	ItemMatch           lipgloss.Style
	ItemMatchCursor     lipgloss.Style // Match highlighting on cursor row
	SearchPrompt        lipgloss.Style
	SelectedMarker      lipgloss.Style
	ScrollIndicator     lipgloss.Style
	BorderColor         lipgloss.Color
	FocusedBorderColor  lipgloss.Color
	DisabledBorderColor lipgloss.Color

	// Misc
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		// Layout - minimal borders, let content breathe
		App: lipgloss.NewStyle().
			Padding(0, 1),
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		Detail: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			PaddingLeft(2),
		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		Field: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
		FieldFocused: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Padding(0, 1),
		FieldDisabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1),
		FieldWhite: lipgloss.NewStyle().
			Background(lipgloss.Color("255")).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1),
		Placeholder: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
		Caret: lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")),

		// List (fuzzy search, selection)
		ListBorder: lipgloss.NewStyle().
			Padding(0, 1),
		ItemNormal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		ItemCursor: lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")),
		ItemSelected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("71")). // Muted green
			Bold(true),
		ItemMatch: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // Magenta for matched chars
			Bold(true),
		ItemMatchCursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Background(lipgloss.Color("62")). // Same background as ItemCursor
			Bold(true),
		SearchPrompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		SelectedMarker: lipgloss.NewStyle().
			Foreground(lipgloss.Color("71")),
		ScrollIndicator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		BorderColor:         lipgloss.Color("240"),
		FocusedBorderColor:  lipgloss.Color("62"),
		DisabledBorderColor: lipgloss.Color("236"),

		// Misc
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")),
	}
}
