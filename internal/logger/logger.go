// Package logger owns the process-wide structured logger used by the CLI.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config selects where logs go. An empty Dir keeps logging disabled.
type Config struct {
	Dir   string
	Debug bool
}

// FileName is the log file created inside Config.Dir.
const FileName = "funcplotter.log"

var (
	mu      sync.RWMutex
	global  = discard()
	logFile *os.File
	logPath string
)

func discard() *slog.Logger { return slog.New(slog.NewJSONHandler(io.Discard, nil)) }

// Setup opens <Dir>/funcplotter.log in append mode and installs a JSON
// handler writing to it. The returned cleanup closes the file and restores
// the discard logger.
func Setup(cfg Config) (func() error, error) {
	if cfg.Dir == "" {
		reset()
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		reset()
		return nil, err
	}
	path := filepath.Join(cfg.Dir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		reset()
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	}
	if cfg.Debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	l := slog.New(slog.NewJSONHandler(f, opts))

	mu.Lock()
	global = l
	logFile = f
	logPath = path
	mu.Unlock()

	l.Info("logger.initialized", "path", path, "debug", cfg.Debug)

	return func() error {
		mu.Lock()
		defer mu.Unlock()
		var cerr error
		if logFile != nil {
			cerr = logFile.Close()
		}
		logFile = nil
		logPath = ""
		global = discard()
		return cerr
	}, nil
}

// L returns the current logger. It never returns nil.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Path returns the active log file, or "" when logging is disabled.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

// IsReady reports an error unless Setup opened a log file.
func IsReady() error {
	mu.RLock()
	defer mu.RUnlock()
	if logFile == nil {
		return errors.New("logger not initialized")
	}
	return nil
}

func reset() {
	mu.Lock()
	defer mu.Unlock()
	global = discard()
	logFile = nil
	logPath = ""
}
