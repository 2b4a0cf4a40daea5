// Package debug provides runtime monitoring and diagnostics.
package debug

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"
)

// EnvDebug enables the monitor when set to 1.
const EnvDebug = "PORTAL_DEBUG"

// Enabled returns true if debug mode is active (PORTAL_DEBUG=1).
func Enabled() bool {
	return os.Getenv(EnvDebug) == "1"
}

// Stats is one snapshot of process and cache state.
type Stats struct {
	Goroutines int
	HeapAlloc  uint64
	NumGC      uint32

	// Cached API responses; -1 when no API client is configured
	APICache int
	// Compiled patterns held by the script engine; -1 without an engine
	RegexCache int
}

// Sources are the optional caches the monitor reports on.
type Sources struct {
	API    interface{ CacheLen() int }
	Script interface{ RegexCacheLen() int }
}

// Monitor periodically logs runtime statistics when debug mode is enabled.
type Monitor struct {
	src      Sources
	interval time.Duration
	logger   *slog.Logger
}

// NewMonitor creates a monitor. If debug mode is not enabled, returns nil.
func NewMonitor(src Sources, logger *slog.Logger) *Monitor {
	if !Enabled() {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		src:      src,
		interval: 5 * time.Second,
		logger:   logger,
	}
}

// Start begins the monitoring loop in a goroutine until ctx is done.
func (m *Monitor) Start(ctx context.Context) {
	if m == nil {
		return
	}
	go m.run(ctx)
}

func (m *Monitor) run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Debug("monitor started", "interval", m.interval)

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("monitor stopped")
			return
		case <-ticker.C:
			m.logStats()
		}
	}
}

// Snapshot collects the current statistics.
func (m *Monitor) Snapshot() Stats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	s := Stats{
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  mem.HeapAlloc,
		NumGC:      mem.NumGC,
		APICache:   -1,
		RegexCache: -1,
	}
	if m.src.API != nil {
		s.APICache = m.src.API.CacheLen()
	}
	if m.src.Script != nil {
		s.RegexCache = m.src.Script.RegexCacheLen()
	}
	return s
}

func (m *Monitor) logStats() {
	s := m.Snapshot()
	m.logger.Info("runtime stats",
		"goroutines", s.Goroutines,
		"heap_alloc", s.HeapAlloc,
		"gc", s.NumGC,
		"api_cache", s.APICache,
		"regex_cache", s.RegexCache,
	)
}
