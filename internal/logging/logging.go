// Package logging installs the process-wide slog logger.
//
// The TUI owns the terminal, so the default sink is a rotating file next to
// the config; CLI commands usually log to stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

type Sink string

const (
	SinkStderr Sink = "stderr"
	SinkFile   Sink = "file"
	SinkNone   Sink = "none"
)

const (
	EnvLogLevel  = "PORTAL_LOG_LEVEL"
	EnvLogFormat = "PORTAL_LOG_FORMAT"
	EnvLogSink   = "PORTAL_LOG_SINK"
	EnvLogFile   = "PORTAL_LOG_FILE"
)

// Options selects level, format and destination.
type Options struct {
	Level  string
	Format string
	Sink   string
	File   string // used by SinkFile; DefaultFile when empty

	// DefaultFile is the file used when File is empty.
	DefaultFile string

	App     string
	Version string
}

// WithEnv applies PORTAL_LOG_* overrides.
func (o Options) WithEnv() Options {
	apply := func(dst *string, env string) {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = v
		}
	}
	apply(&o.Level, EnvLogLevel)
	apply(&o.Format, EnvLogFormat)
	apply(&o.Sink, EnvLogSink)
	apply(&o.File, EnvLogFile)
	return o
}

// Validate rejects unknown levels, formats and sinks.
func (o Options) Validate() error {
	switch strings.ToLower(strings.TrimSpace(o.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: invalid %q", o.Level)
	}
	switch Format(strings.ToLower(strings.TrimSpace(o.Format))) {
	case "", FormatText, FormatJSON:
	default:
		return fmt.Errorf("log.format: invalid %q", o.Format)
	}
	switch Sink(strings.ToLower(strings.TrimSpace(o.Sink))) {
	case "", SinkStderr, SinkFile, SinkNone:
	default:
		return fmt.Errorf("log.sink: invalid %q", o.Sink)
	}
	return nil
}

// New builds a logger without installing it. The returned func releases the
// underlying writer.
func New(opts Options) (*slog.Logger, func() error, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	writer, closeFn, err := resolveWriter(opts)
	if err != nil {
		return nil, nil, err
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	var handler slog.Handler
	switch Format(strings.ToLower(strings.TrimSpace(opts.Format))) {
	case FormatJSON:
		handler = slog.NewJSONHandler(writer, handlerOpts)
	default:
		handler = slog.NewTextHandler(writer, handlerOpts)
	}

	logger := slog.New(handler)
	if opts.App != "" {
		logger = logger.With(slog.String("app", opts.App))
	}
	if opts.Version != "" {
		logger = logger.With(slog.String("version", opts.Version))
	}
	return logger, closeFn, nil
}

// Init builds the logger and installs it with slog.SetDefault.
func Init(opts Options) (func() error, error) {
	logger, closeFn, err := New(opts.WithEnv())
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closeFn, nil
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func resolveWriter(opts Options) (io.Writer, func() error, error) {
	noop := func() error { return nil }

	switch Sink(strings.ToLower(strings.TrimSpace(opts.Sink))) {
	case SinkNone:
		return io.Discard, noop, nil
	case "", SinkStderr:
		return os.Stderr, noop, nil
	case SinkFile:
		path := strings.TrimSpace(opts.File)
		if path == "" {
			path = opts.DefaultFile
		}
		if path == "" {
			return nil, nil, fmt.Errorf("logging: file sink without a path")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
		}
		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		return rot, rot.Close, nil
	default:
		return nil, nil, fmt.Errorf("logging: unknown sink %q", opts.Sink)
	}
}
