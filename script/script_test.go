package script

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/drake/portal/api"
	"github.com/drake/portal/ui/components/dropdown"
)

var projects = []api.WorkItem{
	{ID: "sprint1-cw45-001", Title: "Design internal data bus - Event Streaming", Category: "Sprint 1: CW45"},
	{ID: "sprint2-cw46-001", Title: "Design internal data bus - Optimization", Category: "Sprint 2: CW46"},
	{ID: "sprint3-cw05-001", Title: "GET list_active_projects endpoint", Category: "Sprint 3: CW05"},
}

// setupEngine creates an initialized engine that logs into the returned buffer.
func setupEngine(t *testing.T) (*Engine, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e := NewEngine(logger)
	if err := e.Init(); err != nil {
		t.Fatal("Failed to initialize engine:", err)
	}
	t.Cleanup(e.Close)
	return e, &buf
}

func mustRun(t *testing.T, e *Engine, code string) {
	t.Helper()
	if err := e.DoString("test", code); err != nil {
		t.Fatalf("DoString: %v", err)
	}
}

func TestNoStrategiesLeavesOptionsAlone(t *testing.T) {
	e, _ := setupEngine(t)
	base := dropdown.Options[api.WorkItem]{Items: projects}

	opts := e.ProjectOptions(base)
	if opts.Display != nil || opts.Filter != nil || opts.Compare != nil {
		t.Error("expected no substituted callbacks")
	}
}

func TestDisplayStrategy(t *testing.T) {
	e, _ := setupEngine(t)
	mustRun(t, e, `portal.display(function(item) return item.category .. " / " .. item.title end)`)

	opts := e.ProjectOptions(dropdown.Options[api.WorkItem]{Items: projects})
	got := opts.Display(projects[2])
	if want := "Sprint 3: CW05 / GET list_active_projects endpoint"; got != want {
		t.Errorf("Display = %q, want %q", got, want)
	}
}

func TestFilterStrategyWithMatch(t *testing.T) {
	e, _ := setupEngine(t)
	mustRun(t, e, `portal.filter(function(item, text) return portal.match("(?i)" .. portal.quote(text), item.title) end)`)

	opts := e.ProjectOptions(dropdown.Options[api.WorkItem]{Items: projects})

	var hits []string
	for _, p := range projects {
		if opts.Filter(p, "DATA BUS") {
			hits = append(hits, p.ID)
		}
	}
	if len(hits) != 2 || hits[0] != "sprint1-cw45-001" || hits[1] != "sprint2-cw46-001" {
		t.Errorf("hits = %v", hits)
	}
	if opts.Filter(projects[2], "list_active(") {
		t.Error("quoted paren is literal and should not match")
	}
}

func TestCompareStrategy(t *testing.T) {
	e, _ := setupEngine(t)
	mustRun(t, e, `portal.compare(function(a, b) return a.id == b.id end)`)

	opts := e.ProjectOptions(dropdown.Options[api.WorkItem]{Items: projects})
	renamed := projects[0]
	renamed.Title = "renamed"
	if !opts.Compare(projects[0], renamed) {
		t.Error("compare by id should match a renamed copy")
	}
	if opts.Compare(projects[0], projects[1]) {
		t.Error("different ids should not match")
	}
}

func TestRuntimeErrorFallsBack(t *testing.T) {
	e, logs := setupEngine(t)
	mustRun(t, e, `
		portal.display(function(item) error("boom") end)
		portal.filter(function(item, text) return portal.match(text, item.title) end)
		portal.compare(function(a, b) return a.missing.field end)
	`)

	base := dropdown.Options[api.WorkItem]{
		Display: func(w api.WorkItem) string { return "go:" + w.ID },
	}
	opts := e.ProjectOptions(base)

	if got := opts.Display(projects[0]); got != "go:sprint1-cw45-001" {
		t.Errorf("Display fallback = %q", got)
	}
	// Invalid pattern raises inside Lua; no base filter means everything matches.
	if !opts.Filter(projects[0], "(") {
		t.Error("filter fallback should keep the item")
	}
	if !opts.Compare(projects[0], projects[0]) {
		t.Error("compare fallback should use structural equality")
	}
	if !strings.Contains(logs.String(), "script strategy failed") {
		t.Errorf("expected a warning in the log, got:\n%s", logs.String())
	}
}

func TestDisplayWrongType(t *testing.T) {
	e, _ := setupEngine(t)
	mustRun(t, e, `portal.display(function(item) return {} end)`)
	if _, err := e.Display(projects[0]); err == nil {
		t.Error("expected an error for a table result")
	}
}

func TestStrategyReset(t *testing.T) {
	e, _ := setupEngine(t)
	mustRun(t, e, `portal.display(function(item) return item.id end)`)
	mustRun(t, e, `portal.display(nil)`)

	if d, _, _ := e.Strategies(); d {
		t.Error("display should be cleared")
	}
	if _, err := e.Display(projects[0]); err != ErrNotDefined {
		t.Errorf("err = %v, want ErrNotDefined", err)
	}
}

func TestRegexUserdata(t *testing.T) {
	e, _ := setupEngine(t)
	mustRun(t, e, `
		local re = portal.regex("^sprint(\\d+)")
		local m = re:match("sprint3-cw05-001")
		assert(m[2] == "3", "capture")
		assert(re:pattern() == "^sprint(\\d+)")
		local bad, err = portal.regex("(")
		assert(bad == nil and err ~= nil)
	`)
}

func TestRegexCacheLenDuringReload(t *testing.T) {
	e, _ := setupEngine(t)
	initFile := filepath.Join(t.TempDir(), "init.lua")
	if err := os.WriteFile(initFile, []byte(`portal.regex("^sprint(\\d+)")`), 0o644); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				if n := e.RegexCacheLen(); n < 0 {
					t.Errorf("RegexCacheLen = %d", n)
				}
			}
		}
	}()

	for range 20 {
		if err := e.Load(initFile); err != nil {
			t.Fatalf("Load: %v", err)
		}
	}
	close(stop)
	wg.Wait()

	if n := e.RegexCacheLen(); n != 1 {
		t.Errorf("RegexCacheLen after reload = %d, want 1", n)
	}
}

func TestLog(t *testing.T) {
	e, logs := setupEngine(t)
	mustRun(t, e, `portal.log("warn", "hello", 42)`)
	out := logs.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "hello 42") {
		t.Errorf("unexpected log output:\n%s", out)
	}
}

func TestLoadFile(t *testing.T) {
	e, _ := setupEngine(t)
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "helpers.lua"), []byte(`
		local M = {}
		function M.label(item) return "[" .. item.id .. "]" end
		return M
	`), 0o644); err != nil {
		t.Fatal(err)
	}
	initFile := filepath.Join(dir, "init.lua")
	if err := os.WriteFile(initFile, []byte(`
		local h = require("helpers")
		portal.display(h.label)
	`), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := e.Load(initFile); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, _ := e.Display(projects[1]); got != "[sprint2-cw46-001]" {
		t.Errorf("Display = %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	e, _ := setupEngine(t)
	mustRun(t, e, `portal.display(function(item) return item.id end)`)

	if err := e.Load(filepath.Join(t.TempDir(), "init.lua")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d, f, c := e.Strategies(); d || f || c {
		t.Error("reload should drop previous strategies")
	}
}

func TestLoadSyntaxErrorDropsPartialState(t *testing.T) {
	e, _ := setupEngine(t)
	path := filepath.Join(t.TempDir(), "init.lua")
	if err := os.WriteFile(path, []byte(`
		portal.display(function(item) return item.id end)
		this is not lua
	`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := e.Load(path); err == nil {
		t.Fatal("expected syntax error")
	}
	if d, _, _ := e.Strategies(); d {
		t.Error("no strategy should survive a failed load")
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "init.lua")
	if err := os.WriteFile(path, []byte("-- v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := Watch(ctx, path)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	// Unrelated files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.lua"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ch:
		t.Fatal("change to another file should not notify")
	case <-time.After(3 * ReloadDebounce):
	}

	// A burst of writes coalesces into one notification.
	for i := range 3 {
		if err := os.WriteFile(path, []byte("-- v"+string(rune('2'+i))), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("no reload notification")
	}
	select {
	case <-ch:
		t.Fatal("burst should produce a single notification")
	case <-time.After(3 * ReloadDebounce):
	}

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel to close after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
