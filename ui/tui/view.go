package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	labels := [fieldCount]string{
		a.t("workspace.project"),
		a.t("workspace.category"),
		a.t("workspace.item"),
	}

	sections := []string{a.viewHeader()}
	for i, f := range a.fields() {
		label := labels[i]
		if field(i) == a.focus {
			label = "› " + label
		} else {
			label = "  " + label
		}
		block := []string{a.styles.Label.Render(label), f.View()}
		if field(i) == fieldProject {
			if d := a.viewProjectDetail(); d != "" {
				block = append(block, d)
			}
		}
		sections = append(sections, lipgloss.JoinVertical(lipgloss.Left, block...))
	}

	a.keys.field = a.focused().ShortHelp()
	sections = append(sections, a.status.View(), a.help.View(a.keys))

	return a.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (a *App) viewHeader() string {
	title := a.t("header.title") + " · " + a.t("header.subtitle")
	return a.styles.Header.Render(title)
}

// viewProjectDetail shows the description and destinations of the selected
// project.
func (a *App) viewProjectDetail() string {
	if !a.projectValue.ok {
		return ""
	}
	var lines []string
	if desc := a.projectValue.value.Description; desc != "" {
		lines = append(lines, a.styles.Detail.Render(desc))
	}
	if len(a.destinations) > 0 {
		lines = append(lines, a.styles.Detail.Render(
			a.t("workspace.destinations", strings.Join(a.destinations, ", "))))
	}
	return strings.Join(lines, "\n")
}
