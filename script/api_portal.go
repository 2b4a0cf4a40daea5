package script

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	glua "github.com/yuin/gopher-lua"

	"github.com/drake/portal/api"
)

// registerStrategyFuncs registers portal.display/filter/compare.
// Each takes a function, or nil to go back to the built-in behaviour.
func (e *Engine) registerStrategyFuncs() {
	register := func(name string, dst **glua.LFunction) {
		e.L.SetField(e.portalTable, name, e.L.NewFunction(func(L *glua.LState) int {
			if L.Get(1) == glua.LNil {
				*dst = nil
				return 0
			}
			*dst = L.CheckFunction(1)
			return 0
		}))
	}
	register("display", &e.display)
	register("filter", &e.filter)
	register("compare", &e.compare)
}

// registerLogFuncs registers portal.log(level, ...).
func (e *Engine) registerLogFuncs() {
	e.L.SetField(e.portalTable, "log", e.L.NewFunction(func(L *glua.LState) int {
		level := L.CheckString(1)
		parts := make([]string, 0, L.GetTop()-1)
		for i := 2; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		msg := strings.Join(parts, " ")

		var lvl slog.Level
		switch strings.ToLower(level) {
		case "debug":
			lvl = slog.LevelDebug
		case "warn", "warning":
			lvl = slog.LevelWarn
		case "error":
			lvl = slog.LevelError
		default:
			lvl = slog.LevelInfo
		}
		e.logger.Log(context.Background(), lvl, msg, "source", "lua")
		return 0
	}))
}

// workItemTable converts a project into the table scripts receive.
func workItemTable(L *glua.LState, w api.WorkItem) *glua.LTable {
	t := L.NewTable()
	t.RawSetString("id", glua.LString(w.ID))
	t.RawSetString("title", glua.LString(w.Title))
	t.RawSetString("description", glua.LString(w.Description))
	t.RawSetString("category", glua.LString(w.Category))
	t.RawSetString("status", glua.LString(w.Status))
	return t
}

// call runs fn with args and returns its first result.
func (e *Engine) call(fn *glua.LFunction, args ...glua.LValue) (glua.LValue, error) {
	if err := e.L.CallByParam(glua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		return glua.LNil, err
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)
	return ret, nil
}

// ErrNotDefined is returned when the script registered no such strategy.
var ErrNotDefined = fmt.Errorf("script: strategy not defined")

// Display runs the script's display function.
func (e *Engine) Display(w api.WorkItem) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.display == nil || e.L == nil {
		return "", ErrNotDefined
	}
	ret, err := e.call(e.display, workItemTable(e.L, w))
	if err != nil {
		return "", err
	}
	if ret.Type() != glua.LTString && ret.Type() != glua.LTNumber {
		return "", fmt.Errorf("display: expected string, got %s", ret.Type())
	}
	return ret.String(), nil
}

// Filter runs the script's filter function.
func (e *Engine) Filter(w api.WorkItem, search string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.filter == nil || e.L == nil {
		return false, ErrNotDefined
	}
	ret, err := e.call(e.filter, workItemTable(e.L, w), glua.LString(search))
	if err != nil {
		return false, err
	}
	return glua.LVAsBool(ret), nil
}

// Compare runs the script's compare function.
func (e *Engine) Compare(a, b api.WorkItem) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.compare == nil || e.L == nil {
		return false, ErrNotDefined
	}
	ret, err := e.call(e.compare, workItemTable(e.L, a), workItemTable(e.L, b))
	if err != nil {
		return false, err
	}
	return glua.LVAsBool(ret), nil
}

// Strategies reports which strategies the script registered.
func (e *Engine) Strategies() (display, filter, compare bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.display != nil, e.filter != nil, e.compare != nil
}
