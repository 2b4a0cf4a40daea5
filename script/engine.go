// Package script lets init.lua customise how projects are labelled, filtered
// and compared in the workspace dropdown.
package script

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	glua "github.com/yuin/gopher-lua"
)

const regexCacheSize = 100

// Engine wraps gopher-lua and manages the VM lifecycle.
// All calls into the VM are serialised.
type Engine struct {
	mu sync.Mutex

	L          *glua.LState
	regexCache *lru.Cache[string, *regexp.Regexp]
	logger     *slog.Logger

	// Cached table reference
	portalTable *glua.LTable

	// Strategies registered by the script; nil when not defined
	display *glua.LFunction
	filter  *glua.LFunction
	compare *glua.LFunction
}

// NewEngine creates an Engine. Call Init before running scripts.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	cache, _ := lru.New[string, *regexp.Regexp](regexCacheSize)
	return &Engine{
		regexCache: cache,
		logger:     logger,
	}
}

// --- Lifecycle ---

// Init initializes (or re-initializes) the Lua VM with fresh state.
// Registered strategies are dropped.
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initLocked()
	return nil
}

func (e *Engine) initLocked() {
	if e.L != nil {
		e.L.Close()
	}
	e.L = glua.NewState()

	// The cache itself lives as long as the engine; RegexCacheLen reads it
	// without the VM lock.
	e.regexCache.Purge()

	e.display, e.filter, e.compare = nil, nil, nil
	e.registerAPIs()
}

// Close cleans up the Lua state.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.display, e.filter, e.compare = nil, nil, nil
	if e.L != nil {
		e.L.Close()
		e.L = nil
	}
}

// RegexCacheLen returns the number of compiled patterns held for
// portal.regex and portal.match.
func (e *Engine) RegexCacheLen() int {
	return e.regexCache.Len()
}

// --- Execution Primitives ---

// DoString executes a raw string of Lua code.
// The name parameter is used for stack traces.
func (e *Engine) DoString(name, code string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn, err := e.L.Load(strings.NewReader(code), name)
	if err != nil {
		return err
	}
	e.L.Push(fn)
	return e.L.PCall(0, 0, nil)
}

// DoFile executes a Lua file from the filesystem.
// It temporarily adjusts package.path to allow local requires.
func (e *Engine) DoFile(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doFileLocked(path)
}

func (e *Engine) doFileLocked(path string) error {
	path = expandTilde(path)

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(absPath)

	// Temporarily prepend script's directory to package.path
	pkg := e.L.GetGlobal("package").(*glua.LTable)
	oldPath := e.L.GetField(pkg, "path").String()
	e.L.SetField(pkg, "path", glua.LString(dir+"/?.lua;"+oldPath))

	err = e.L.DoFile(absPath)

	e.L.SetField(pkg, "path", glua.LString(oldPath))
	return err
}

// Load resets the VM and runs the script at path. A missing file leaves a
// fresh VM with no strategies and is not an error.
func (e *Engine) Load(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.initLocked()
	if _, err := os.Stat(expandTilde(path)); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := e.doFileLocked(path); err != nil {
		// Keep nothing from a half-run script.
		e.initLocked()
		return err
	}
	e.logger.Debug("script loaded", "path", path,
		"display", e.display != nil, "filter", e.filter != nil, "compare", e.compare != nil)
	return nil
}

// --- API Registration ---

func (e *Engine) registerAPIs() {
	e.portalTable = e.L.NewTable()
	e.L.SetGlobal("portal", e.portalTable)

	e.registerStrategyFuncs()
	e.registerRegexFuncs()
	e.registerLogFuncs()
}

// --- Private Helpers ---

// expandTilde expands ~ to home directory.
func expandTilde(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
