// Package log provides structured logging for tabedit. It wraps
// tea.LogToFile with leveled, category-tagged entries and is gated by the
// --debug flag or the TABEDIT_DEBUG env var, so a normal run writes
// nothing.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Category groups related log messages, mirroring the core's components.
type Category string

const (
	CatDocument  Category = "document"
	CatCodec     Category = "codec"
	CatCommand   Category = "command"
	CatSearch    Category = "search"
	CatClipboard Category = "clipboard"
	CatConfig    Category = "config"
)

// Logger writes timestamped, leveled entries to a single file.
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	closer   io.Closer
	enabled  bool
	minLevel Level
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Init opens path via tea.LogToFile (so bubbletea's own debug logging
// shares the file) and installs it as the package-level logger. Returns a
// cleanup function to close the file. Safe to call once per process.
func Init(path, prefix string) (func(), error) {
	var initErr error
	once.Do(func() {
		f, err := tea.LogToFile(path, prefix)
		if err != nil {
			initErr = err
			return
		}
		defaultLogger = &Logger{writer: f, closer: f, enabled: true, minLevel: LevelDebug}
	})
	if initErr != nil {
		return nil, initErr
	}
	return func() {
		if defaultLogger != nil && defaultLogger.closer != nil {
			_ = defaultLogger.closer.Close()
		}
	}, nil
}

// IsDebugRequested reports whether the --debug flag or TABEDIT_DEBUG env
// var asked for logging.
func IsDebugRequested(flag bool) bool {
	if flag {
		return true
	}
	_, set := os.LookupEnv("TABEDIT_DEBUG")
	return set
}

// SetEnabled toggles logging on/off at runtime (":set" could wire this up
// later; currently driven by IsDebugRequested at startup).
func SetEnabled(enabled bool) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.enabled = enabled
		defaultLogger.mu.Unlock()
	}
}

func Debug(cat Category, msg string, fields ...any) { entry(LevelDebug, cat, msg, fields...) }
func Info(cat Category, msg string, fields ...any)  { entry(LevelInfo, cat, msg, fields...) }
func Warn(cat Category, msg string, fields ...any)  { entry(LevelWarn, cat, msg, fields...) }
func Error(cat Category, msg string, fields ...any) { entry(LevelError, cat, msg, fields...) }

// ErrorErr logs an error value alongside msg, used at the core/adapter
// boundary when an ErrorSignal arrives.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	}
	entry(LevelError, cat, msg, fields...)
}

func entry(level Level, cat Category, msg string, fields ...any) {
	if defaultLogger == nil || !defaultLogger.enabled || level < defaultLogger.minLevel {
		return
	}
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()

	line := fmt.Sprintf("%s [%s] [%s] %s", time.Now().Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		line += fmt.Sprintf(" %v=%v", fields[i], fields[i+1])
	}
	line += "\n"
	_, _ = defaultLogger.writer.Write([]byte(line))
}
