// Package logging provides the process-wide debug log.
//
// Records are written as JSON lines to a rotating file. The log is a
// diagnostic aid only: nothing is written to stdout or stderr, and a log
// file that cannot be opened never fails a command.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization.
type Options struct {
	Level   string // debug, info, warn, error
	File    string // empty disables logging
	Version string
}

var (
	defaultLoggerMu sync.RWMutex
	defaultLogger   *slog.Logger
	defaultWriter   io.Closer
)

// L returns the process logger. Before Init it discards everything.
func L() *slog.Logger {
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	if defaultLogger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return defaultLogger
}

// Init configures the process logger and sets slog.Default as well.
// Calling Init again closes the previous log file.
func Init(opts Options) {
	var (
		h slog.Handler = slog.DiscardHandler
		w io.Closer
	)
	if strings.TrimSpace(opts.File) != "" {
		lw := &lj.Logger{Filename: opts.File, MaxSize: 10, MaxBackups: 3, MaxAge: 28}
		h = slog.NewJSONHandler(lw, &slog.HandlerOptions{Level: parseLevel(opts.Level)})
		w = lw
	}

	version := opts.Version
	if version == "" {
		version = "dev"
	}
	logger := slog.New(h).With(
		slog.String("app", "snippets"),
		slog.String("ver", version),
	)

	defaultLoggerMu.Lock()
	prev := defaultWriter
	defaultLogger = logger
	defaultWriter = w
	defaultLoggerMu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
	slog.SetDefault(logger)
}

// Close flushes and closes the log file, if any.
func Close() error {
	defaultLoggerMu.Lock()
	w := defaultWriter
	defaultWriter = nil
	defaultLogger = nil
	defaultLoggerMu.Unlock()

	if w == nil {
		return nil
	}
	return w.Close()
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// parseLevel converts a string to slog.Level.
func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
