// Package logger is the process-wide structured logger. The terminal UI owns
// stdout, so everything goes to a log file through a slog text handler.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogLevel is the minimum severity written to the log file.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// ParseLevel maps a LOG_LEVEL value (debug, info, warn/warning, error) to a
// LogLevel. The empty string is LevelInfo.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// DefaultLogPath is used when Init is never called.
const DefaultLogPath = "/tmp/relaydesk.log"

var (
	mu           sync.Mutex
	once         sync.Once
	base         *slog.Logger
	levelVar     = new(slog.LevelVar)
	file         *os.File
	path         string
	initDone     bool
	currentLevel = LevelInfo
)

func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
	levelVar.Set(level.slogLevel())
}

// CurrentLevel returns the minimum level being written.
func CurrentLevel() LogLevel {
	mu.Lock()
	defer mu.Unlock()
	return currentLevel
}

// SetDebug switches between debug and info.
func SetDebug(enabled bool) {
	if enabled {
		SetLevel(LevelDebug)
		return
	}
	SetLevel(LevelInfo)
}

// Init opens the log file at p. Calling it again after a successful Init is a
// no-op until Reset.
func Init(p string) error {
	mu.Lock()
	defer mu.Unlock()

	if initDone {
		return nil
	}
	if err := open(p); err != nil {
		return err
	}
	base.Info("logger initialized", "path", p, "level", currentLevel.String())
	return nil
}

// Path returns the file currently being written, or "" before init.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return path
}

// open must be called with mu held.
func open(p string) error {
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", p, err)
	}
	file = f
	path = p
	levelVar.Set(currentLevel.slogLevel())
	base = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))
	initDone = true
	return nil
}

// ensureInit must be called with mu held.
func ensureInit() {
	if initDone {
		return
	}
	once.Do(func() {
		if err := open(DefaultLogPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	})
}

func logf(level slog.Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	ensureInit()
	if base == nil || !base.Enabled(context.Background(), level) {
		return
	}
	base.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

func Debug(format string, args ...any) { logf(slog.LevelDebug, format, args...) }

func Info(format string, args ...any) { logf(slog.LevelInfo, format, args...) }

func Warn(format string, args ...any) { logf(slog.LevelWarn, format, args...) }

func Error(format string, args ...any) { logf(slog.LevelError, format, args...) }

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	base = nil
}

// Reset returns the package to its pristine state so tests can re-Init.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	initDone = false
	once = sync.Once{}
	path = ""
	base = nil
	currentLevel = LevelInfo
	levelVar = new(slog.LevelVar)
}

// ComponentLogger returns a logger tagged with a component attribute.
//
//	log := logger.ComponentLogger("relay")
//	log.Info("connected", "url", url)
func ComponentLogger(component string) *slog.Logger {
	return with(slog.String("component", component))
}

// WithSID returns a logger tagged with a visitor session identifier.
func WithSID(sid string) *slog.Logger {
	return with(slog.String("sid", sid))
}

func with(attr slog.Attr) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	ensureInit()
	if base == nil {
		return slog.Default().With(attr)
	}
	return base.With(attr)
}

// Logger returns the underlying slog.Logger, or nil when the file could not
// be opened.
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	ensureInit()
	return base
}
