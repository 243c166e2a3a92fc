package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/vishnuprakaz/sales-assist/pkg/config"
)

// LogLevel represents the logging level
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[LogLevel]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel converts a config value to a LogLevel. Unknown values are info.
func ParseLevel(levelStr string) LogLevel {
	switch levelStr {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// Logger writes leveled lines to a file or writer. The level may be changed
// from any goroutine while others are logging.
type Logger struct {
	level  atomic.Int32
	logger *log.Logger
	file   *os.File
}

var defaultLogger atomic.Pointer[Logger]

// echoErrors controls whether errors are also written to stderr. The TUI
// turns it off while it owns the terminal.
var echoErrors atomic.Bool

func init() {
	echoErrors.Store(true)
}

// SetEcho enables or disables copying errors to stderr.
func SetEcho(enabled bool) {
	echoErrors.Store(enabled)
}

// Init creates the default logger from the loaded settings. It is a no-op
// once a default logger exists.
func Init() error {
	if defaultLogger.Load() != nil {
		return nil
	}

	settings := config.Get()
	l, err := New(ParseLevel(settings.Logging.Level), settings.Logging.LogFile, settings.Logging.Persist)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	defaultLogger.Store(l)
	return nil
}

// New opens logFile, truncating it unless persist is set. Relative paths
// are placed in the settings directory.
func New(level LogLevel, logFile string, persist bool) (*Logger, error) {
	logPath := logFile
	if !filepath.IsAbs(logPath) {
		logPath = config.BuildSettingsPath(filepath.Base(logPath))
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if persist {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(logPath, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := NewWithWriter(level, file)
	l.file = file
	return l, nil
}

// NewWithWriter creates a Logger writing to w instead of a file
func NewWithWriter(level LogLevel, w io.Writer) *Logger {
	l := &Logger{logger: log.New(w, "", log.LstdFlags)}
	l.level.Store(int32(level))
	return l
}

// SetDefault replaces the logger used by the package-level functions and
// returns the previous one
func SetDefault(l *Logger) *Logger {
	return defaultLogger.Swap(l)
}

// Close closes the log file
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) Level() LogLevel {
	return LogLevel(l.level.Load())
}

func (l *Logger) SetLevel(level LogLevel) {
	l.level.Store(int32(level))
}

func (l *Logger) log(level LogLevel, format string, args ...any) {
	if level < l.Level() {
		return
	}

	message := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] %s", level, message)

	if level >= LevelError && echoErrors.Load() {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", level, message)
	}
}

func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(format string, args ...any) {
	l.log(LevelFatal, format, args...)
	os.Exit(1)
}

// Package-level convenience functions using the default logger. They do
// nothing before Init.

func Debug(format string, args ...any) {
	if l := defaultLogger.Load(); l != nil {
		l.Debug(format, args...)
	}
}

func Info(format string, args ...any) {
	if l := defaultLogger.Load(); l != nil {
		l.Info(format, args...)
	}
}

func Warn(format string, args ...any) {
	if l := defaultLogger.Load(); l != nil {
		l.Warn(format, args...)
	}
}

func Error(format string, args ...any) {
	if l := defaultLogger.Load(); l != nil {
		l.Error(format, args...)
	}
}

func Fatal(format string, args ...any) {
	l := defaultLogger.Load()
	if l == nil {
		fmt.Fprintf(os.Stderr, "[FATAL] "+format+"\n", args...)
		os.Exit(1)
	}
	l.Fatal(format, args...)
}

// SetOutput sets the output writer for the logger (useful for testing)
func SetOutput(w io.Writer) {
	if l := defaultLogger.Load(); l != nil {
		l.logger.SetOutput(w)
	}
}

// SetLevel changes the level of the default logger. It is called from the
// config watcher goroutine.
func SetLevel(level LogLevel) {
	if l := defaultLogger.Load(); l != nil {
		l.SetLevel(level)
	}
}

// Close closes the default logger
func Close() error {
	if l := defaultLogger.Swap(nil); l != nil {
		return l.Close()
	}
	return nil
}
