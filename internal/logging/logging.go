// Package logging configures the process-wide logrus logger. The terminal
// belongs to the UI while it runs, so log output goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu     sync.Mutex
	logger = newDiscardLogger()
	closer io.Closer
)

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Options selects the level and destination of log output.
type Options struct {
	Level string
	File  string
}

// DefaultFile returns $XDG_STATE_HOME/rnav/rnav.log, falling back to
// ~/.local/state/rnav/rnav.log. It returns "" when neither can be resolved.
func DefaultFile() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "rnav", "rnav.log")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".local", "state", "rnav", "rnav.log")
}

// Init replaces the package logger. If the log file cannot be opened the
// logger discards output and the error is returned so the caller can report
// it before the UI takes over the terminal.
func Init(opts Options) error {
	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	path := opts.File
	if path == "" {
		path = DefaultFile()
	}

	var (
		out     io.Writer = io.Discard
		file    *os.File
		openErr error
	)
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			openErr = fmt.Errorf("cannot create log directory: %w", err)
		} else if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err != nil {
			openErr = fmt.Errorf("cannot open log file: %w", err)
		} else {
			file = f
			out = f
		}
	}
	l.SetOutput(out)

	mu.Lock()
	prev := closer
	logger = l
	closer = nil
	if file != nil {
		closer = file
	}
	mu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
	return openErr
}

// SetOutput redirects the logger, mostly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// Logger returns the package logger.
func Logger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// For returns an entry tagged with the subsystem name.
func For(subsystem string) *logrus.Entry {
	return Logger().WithField("subsystem", subsystem)
}

// Close flushes and closes the log file, if any.
func Close() error {
	mu.Lock()
	c := closer
	closer = nil
	logger.SetOutput(io.Discard)
	mu.Unlock()
	if c != nil {
		return c.Close()
	}
	return nil
}
