// Package tui is the terminal workspace: three chained dropdowns for a
// project, a mapping category and a mapping item.
//
// The App owns every selected value. Dropdowns only report what the user
// picked; the App stores it from the modelValue listener, reacts to the
// update listener, and pushes the stored values back before each render.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/drake/portal/api"
	"github.com/drake/portal/config"
	"github.com/drake/portal/i18n"
	"github.com/drake/portal/script"
	"github.com/drake/portal/ui/components/dropdown"
	"github.com/drake/portal/ui/components/status"
	"github.com/drake/portal/ui/style"
)

// ProjectSource lists workspace projects.
type ProjectSource interface {
	GetProjects(ctx context.Context, userID string) ([]api.WorkItem, error)
	GetProjectDestinations(ctx context.Context, id string) ([]string, error)
}

// CatalogSource lists mapping categories and their items.
type CatalogSource interface {
	GetCategories(ctx context.Context) ([]string, error)
	GetCategory(ctx context.Context, category string, p api.PaginationParameter) (*api.PaginationResult, error)
}

// Deps are the collaborators of the workspace.
type Deps struct {
	Projects ProjectSource
	// Catalog is nil when no API base URL is configured.
	Catalog CatalogSource

	// Script may be nil. ScriptPath is reloaded on "r" and whenever
	// ScriptChanges fires.
	Script        *script.Engine
	ScriptPath    string
	ScriptChanges <-chan struct{}

	Bundle *i18n.Bundle
	Lang   string
	UI     config.UIConfig
	UserID string
	// PageSize limits the items fetched per category; 0 fetches all.
	PageSize int

	Logger *slog.Logger
}

type field int

const (
	fieldProject field = iota
	fieldCategory
	fieldItem
	fieldCount
)

// binding is a controlled value held by the App.
type binding[T any] struct {
	value T
	ok    bool
}

// App is the Bubble Tea model of the workspace.
type App struct {
	ctx    context.Context
	deps   Deps
	styles style.Styles
	keys   keyMap
	help   help.Model
	status status.Bar

	project  *dropdown.Model[api.WorkItem]
	category *dropdown.Model[string]
	item     *dropdown.Model[api.Item]

	projectValue  binding[api.WorkItem]
	categoryValue binding[string]
	itemValue     binding[api.Item]

	destinations []string
	focus        field

	// Commands queued by listeners during the current Update
	pending []tea.Cmd

	width    int
	quitting bool
}

// New builds the workspace.
func New(ctx context.Context, deps Deps) *App {
	if deps.Bundle == nil {
		deps.Bundle = i18n.Default()
	}
	if deps.Lang == "" {
		deps.Lang = i18n.Fallback
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	styles := style.DefaultStyles()
	a := &App{
		ctx:    ctx,
		deps:   deps,
		styles: styles,
		keys:   newKeyMap(deps.Bundle, deps.Lang),
		help:   help.New(),
		status: status.New(styles),
	}
	a.status.SetContext(deps.Lang)

	a.project = dropdown.New(a.projectOptions(nil), styles)
	a.category = dropdown.New(a.categoryOptions(), styles)
	a.item = dropdown.New(a.itemOptions(), styles)

	km := dropdownKeys(deps.Bundle, deps.Lang)
	a.project.SetKeyMap(km)
	a.category.SetKeyMap(km)
	a.item.SetKeyMap(km)

	a.category.SetDisabled(deps.Catalog == nil)
	a.item.SetDisabled(true)
	a.project.Focus()

	a.bind()
	return a
}

func (a *App) t(key string, args ...any) string {
	return a.deps.Bundle.T(a.deps.Lang, key, args...)
}

// common fills the presentation fields shared by all dropdowns.
func common[T any](a *App, opts dropdown.Options[T]) dropdown.Options[T] {
	ui := a.deps.UI
	opts.Placeholder = a.t("dropdown.placeholder")
	opts.EmptyText = a.t("dropdown.empty")
	opts.SearchLabel = a.t("dropdown.search")
	opts.MaxVisible = ui.MaxVisible
	opts.Width = ui.Width
	opts.RoundedL = ui.RoundedL
	opts.RoundedR = ui.RoundedR
	opts.BgWhite = ui.BgWhite
	return opts
}

// withFilter sets the configured filter and the matching highlight.
func withFilter[T any](opts dropdown.Options[T], name string) dropdown.Options[T] {
	switch strings.ToLower(name) {
	case "contains":
		opts.Filter, opts.Highlight = dropdown.Contains(opts.Display), dropdown.ContainsHighlight
	case "fold":
		opts.Filter, opts.Highlight = dropdown.Fold(opts.Display), dropdown.FoldHighlight
	default:
		opts.Filter, opts.Highlight = dropdown.Fuzzy(opts.Display), dropdown.FuzzyHighlight
	}
	return opts
}

func (a *App) projectOptions(items []api.WorkItem) dropdown.Options[api.WorkItem] {
	opts := common(a, dropdown.Options[api.WorkItem]{
		Items:   items,
		Display: func(w api.WorkItem) string { return w.Title },
		Compare: func(x, y api.WorkItem) bool { return x.ID == y.ID },
	})
	if a.deps.Script != nil {
		opts = a.deps.Script.ProjectOptions(opts)
	}
	if opts.Filter == nil {
		opts = withFilter(opts, a.deps.UI.Filter)
	}
	return opts
}

func (a *App) categoryOptions() dropdown.Options[string] {
	return withFilter(common(a, dropdown.Options[string]{
		Display: func(s string) string { return s },
		Compare: func(x, y string) bool { return x == y },
	}), a.deps.UI.Filter)
}

func (a *App) itemOptions() dropdown.Options[api.Item] {
	path := a.deps.UI.DisplayPath
	return withFilter(common(a, dropdown.Options[api.Item]{
		Display: func(it api.Item) string { return it.DisplayName(path) },
		Compare: func(x, y api.Item) bool { return x.ID == y.ID },
	}), a.deps.UI.Filter)
}

// bind registers the listeners that make the App the owner of each value.
func (a *App) bind() {
	a.project.OnModelValue(func(v api.WorkItem, ok bool) {
		a.projectValue = binding[api.WorkItem]{value: v, ok: ok}
		a.destinations = nil
		if !ok {
			a.status.Info(a.t("workspace.cleared", a.t("workspace.project")))
		}
	})
	a.project.OnUpdate(func(v api.WorkItem) {
		a.status.Info(a.t("workspace.selected", v.Title))
		a.deps.Logger.Debug("project selected", "id", v.ID)
		a.queue(loadDestinations(a.ctx, a.deps.Projects, v.ID))
	})

	a.category.OnModelValue(func(v string, ok bool) {
		changed := ok != a.categoryValue.ok || v != a.categoryValue.value
		a.categoryValue = binding[string]{value: v, ok: ok}
		if changed {
			a.itemValue = binding[api.Item]{}
			a.item.SetItems(nil)
			a.item.SetDisabled(true)
		}
		if !ok {
			a.status.Info(a.t("workspace.cleared", a.t("workspace.category")))
		}
	})
	a.category.OnUpdate(func(v string) {
		a.deps.Logger.Debug("category selected", "category", v)
		a.status.Loading(a.t("workspace.loading", v))
		a.queue(a.loadItems(v))
	})

	a.item.OnModelValue(func(v api.Item, ok bool) {
		a.itemValue = binding[api.Item]{value: v, ok: ok}
		if !ok {
			a.status.Info(a.t("workspace.cleared", a.t("workspace.item")))
		}
	})
	a.item.OnUpdate(func(v api.Item) {
		a.deps.Logger.Debug("item selected", "id", v.ID)
		a.status.Info(a.t("workspace.selected", v.DisplayName(a.deps.UI.DisplayPath)))
	})
}

func (a *App) queue(cmd tea.Cmd) {
	if cmd != nil {
		a.pending = append(a.pending, cmd)
	}
}

func (a *App) loadItems(category string) tea.Cmd {
	if a.deps.Catalog == nil {
		return nil
	}
	var page api.PaginationParameter
	if a.deps.PageSize > 0 {
		page = api.Page(a.deps.PageSize, 0)
	}
	return loadItems(a.ctx, a.deps.Catalog, category, page)
}

func syncValue[T any](d *dropdown.Model[T], b binding[T]) {
	if b.ok {
		d.SetModelValue(b.value)
	} else {
		d.UnsetModelValue()
	}
}

// syncValues passes the owned values back to the dropdowns.
func (a *App) syncValues() {
	syncValue(a.project, a.projectValue)
	syncValue(a.category, a.categoryValue)
	syncValue(a.item, a.itemValue)
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		loadProjects(a.ctx, a.deps.Projects, a.deps.UserID),
		waitForScript(a.deps.ScriptChanges),
	}
	a.status.Loading(a.t("workspace.loading", a.t("workspace.project")))
	if a.deps.Catalog != nil {
		cmds = append(cmds, loadCategories(a.ctx, a.deps.Catalog))
	} else {
		a.status.Error(a.t("workspace.no_api"))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.help.Width = msg.Width
		a.status.SetWidth(max(0, msg.Width-2))

	case tea.KeyMsg:
		cmds = append(cmds, a.handleKey(msg))

	case projectsLoadedMsg:
		if msg.err != nil {
			a.fail("load projects", msg.err)
			break
		}
		a.project.SetItems(msg.items)
		a.status.Info(a.t("workspace.loaded", len(msg.items), a.t("workspace.project")))

	case destinationsLoadedMsg:
		if !a.projectValue.ok || a.projectValue.value.ID != msg.projectID {
			break // stale
		}
		if msg.err != nil {
			a.fail("load destinations", msg.err)
			break
		}
		a.destinations = msg.dests

	case categoriesLoadedMsg:
		if msg.err != nil {
			a.fail("load categories", msg.err)
			break
		}
		a.category.SetItems(msg.names)

	case itemsLoadedMsg:
		if !a.categoryValue.ok || a.categoryValue.value != msg.category {
			break // stale
		}
		if msg.err != nil {
			a.fail("load items", msg.err)
			break
		}
		a.item.SetItems(msg.items)
		a.item.SetDisabled(false)
		a.status.Info(a.t("workspace.loaded", len(msg.items), msg.category))

	case scriptChangedMsg:
		a.reloadScript()
		cmds = append(cmds, waitForScript(a.deps.ScriptChanges))

	default:
		cmds = append(cmds, a.forward(msg))
	}

	a.syncValues()
	cmds = append(cmds, a.pending...)
	a.pending = nil
	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, a.keys.Force) {
		a.quitting = true
		return tea.Quit
	}
	// An open dropdown owns the keyboard so typing can search.
	if a.focused().IsOpen() {
		return a.forward(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Next):
		a.moveFocus(1)
	case key.Matches(msg, a.keys.Prev):
		a.moveFocus(-1)
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return tea.Quit
	case key.Matches(msg, a.keys.Reload):
		return a.reload()
	default:
		return a.forward(msg)
	}
	return nil
}

// focusable is the part of a dropdown the App drives without knowing T.
type focusable interface {
	Focus()
	Blur()
	Disabled() bool
	IsOpen() bool
	Update(tea.Msg) tea.Cmd
	View() string
	ShortHelp() []key.Binding
}

func (a *App) fields() [fieldCount]focusable {
	return [fieldCount]focusable{a.project, a.category, a.item}
}

func (a *App) focused() focusable {
	return a.fields()[a.focus]
}

func (a *App) forward(msg tea.Msg) tea.Cmd {
	return a.focused().Update(msg)
}

// moveFocus moves to the next enabled field in direction dir.
func (a *App) moveFocus(dir int) {
	fields := a.fields()
	next := a.focus
	for range fieldCount {
		next = (next + field(dir) + fieldCount) % fieldCount
		if !fields[next].Disabled() {
			break
		}
	}
	fields[a.focus].Blur()
	a.focus = next
	fields[a.focus].Focus()
}

// reload reruns the script and refetches everything shown.
func (a *App) reload() tea.Cmd {
	a.reloadScript()
	if p, ok := a.deps.Catalog.(interface{ Purge() }); ok {
		p.Purge()
	}

	cmds := []tea.Cmd{loadProjects(a.ctx, a.deps.Projects, a.deps.UserID)}
	if a.deps.Catalog != nil {
		cmds = append(cmds, loadCategories(a.ctx, a.deps.Catalog))
		if a.categoryValue.ok {
			cmds = append(cmds, a.loadItems(a.categoryValue.value))
		}
	}
	if a.projectValue.ok {
		cmds = append(cmds, loadDestinations(a.ctx, a.deps.Projects, a.projectValue.value.ID))
	}
	a.status.Loading(a.t("workspace.loading", a.t("workspace.project")))
	return tea.Batch(cmds...)
}

func (a *App) reloadScript() {
	if a.deps.Script == nil {
		return
	}
	if a.deps.ScriptPath != "" {
		if err := a.deps.Script.Load(a.deps.ScriptPath); err != nil {
			a.fail("reload script", err)
		} else {
			a.status.Info(a.t("workspace.reloaded"))
		}
	}
	a.project.SetOptions(a.projectOptions(a.project.Items()))
}

// fail reports err in the status line and the log.
func (a *App) fail(op string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	a.deps.Logger.Error(op, "err", err)
	a.status.Error(a.t("workspace.error", err.Error()))
}
