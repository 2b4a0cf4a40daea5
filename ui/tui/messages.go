package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/drake/portal/api"
)

// projectsLoadedMsg carries the result of the projects request.
type projectsLoadedMsg struct {
	items []api.WorkItem
	err   error
}

// destinationsLoadedMsg carries the publication platforms of a project.
type destinationsLoadedMsg struct {
	projectID string
	dests     []string
	err       error
}

// categoriesLoadedMsg carries the list of categories.
type categoriesLoadedMsg struct {
	names []string
	err   error
}

// itemsLoadedMsg carries the mapping items of one category.
type itemsLoadedMsg struct {
	category string
	items    []api.Item
	err      error
}

// scriptChangedMsg signals that init.lua changed on disk.
type scriptChangedMsg struct{}

func loadProjects(ctx context.Context, src ProjectSource, userID string) tea.Cmd {
	return func() tea.Msg {
		items, err := src.GetProjects(ctx, userID)
		return projectsLoadedMsg{items: items, err: err}
	}
}

func loadDestinations(ctx context.Context, src ProjectSource, id string) tea.Cmd {
	return func() tea.Msg {
		dests, err := src.GetProjectDestinations(ctx, id)
		return destinationsLoadedMsg{projectID: id, dests: dests, err: err}
	}
}

func loadCategories(ctx context.Context, src CatalogSource) tea.Cmd {
	return func() tea.Msg {
		names, err := src.GetCategories(ctx)
		return categoriesLoadedMsg{names: names, err: err}
	}
}

func loadItems(ctx context.Context, src CatalogSource, category string, page api.PaginationParameter) tea.Cmd {
	return func() tea.Msg {
		res, err := src.GetCategory(ctx, category, page)
		if err != nil {
			return itemsLoadedMsg{category: category, err: err}
		}
		return itemsLoadedMsg{category: category, items: res.Items}
	}
}

// waitForScript blocks until the watcher reports a change. A closed channel
// ends the subscription.
func waitForScript(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return scriptChangedMsg{}
	}
}
