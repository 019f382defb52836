package errors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the logging level.
type LogLevel int

const (
	// LogLevelError logs only errors.
	LogLevelError LogLevel = iota
	// LogLevelWarn logs warnings and errors.
	LogLevelWarn
	// LogLevelInfo logs info, warnings, and errors.
	LogLevelInfo
	// LogLevelDebug logs everything including debug messages.
	LogLevelDebug
)

// DefaultSource is the source tag attached to plugin records.
const DefaultSource = "Plugin lh2mqtt"

// String returns the string representation of LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "ERROR"
	case LogLevelWarn:
		return "WARN"
	case LogLevelInfo:
		return "INFO"
	case LogLevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Sink is the host logging facility: it accepts a severity, a message and a source tag.
type Sink interface {
	Log(level LogLevel, message, source string)
}

// Logger provides leveled logging with verbose mode support. It implements Sink.
type Logger struct {
	mu      sync.Mutex
	output  io.Writer
	level   LogLevel
	verbose bool
	source  string
	now     func() time.Time
}

var _ Sink = (*Logger)(nil)

// Global logger instance
var defaultLogger = &Logger{
	output: os.Stderr,
	level:  LogLevelInfo,
	source: DefaultSource,
	now:    time.Now,
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(verbose bool) {
	defaultLogger.SetVerbose(verbose)
}

// IsVerbose returns whether verbose logging is enabled.
func IsVerbose() bool {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	return defaultLogger.verbose
}

// SetOutput sets the output writer for the logger.
func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.output = w
}

// Default returns the process-wide logger.
func Default() *Logger {
	return defaultLogger
}

// NewLogger creates a new logger with the given configuration.
// Verbose loggers include DEBUG records; others stop at INFO.
func NewLogger(output io.Writer, verbose bool) *Logger {
	level := LogLevelInfo
	if verbose {
		level = LogLevelDebug
	}
	return &Logger{
		output:  output,
		level:   level,
		verbose: verbose,
		source:  DefaultSource,
		now:     time.Now,
	}
}

// SetVerbose switches between INFO and DEBUG thresholds.
func (l *Logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = verbose
	if verbose {
		l.level = LogLevelDebug
	} else {
		l.level = LogLevelInfo
	}
}

// WithSource returns a logger writing to the same output under another source tag.
func (l *Logger) WithSource(source string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{
		output:  l.output,
		level:   l.level,
		verbose: l.verbose,
		source:  source,
		now:     l.now,
	}
}

// Log implements Sink.
func (l *Logger) Log(level LogLevel, message, source string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level > l.level {
		return
	}
	if source == "" {
		source = l.source
	}

	timestamp := l.now().Format("15:04:05")
	fmt.Fprintf(l.output, "[%s] %s %s: %s\n", timestamp, level.String(), source, message)
}

// log writes a formatted message at the given level under the logger's source.
func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.Log(level, fmt.Sprintf(format, args...), "")
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LogLevelError, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LogLevelWarn, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LogLevelInfo, format, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LogLevelDebug, format, args...)
}

// LogFieldRead echoes a field read in verbose mode, masking sensitive values.
func (l *Logger) LogFieldRead(section, key, value string, sensitive bool) {
	if sensitive {
		value = MaskedValue
	}
	l.Debug("ReadIniValue: [%s]%s=%s", section, key, value)
}

// LogFieldWrite echoes a field write in verbose mode, masking sensitive values.
func (l *Logger) LogFieldWrite(section, key, value string, sensitive bool) {
	if sensitive {
		value = MaskedValue
	}
	l.Debug("WriteIniValue: [%s]%s=%s", section, key, value)
}

// Package-level logging functions using the default logger

// Error logs an error message.
func Error(format string, args ...interface{}) {
	defaultLogger.Error(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	defaultLogger.Warn(format, args...)
}

// Info logs an info message.
func Info(format string, args ...interface{}) {
	defaultLogger.Info(format, args...)
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	defaultLogger.Debug(format, args...)
}

// MaskedValue replaces sensitive values in diagnostic output.
const MaskedValue = "***"

// MaskSecret masks a secret for safe logging. Empty secrets stay empty.
func MaskSecret(secret string) string {
	if strings.TrimSpace(secret) == "" {
		return ""
	}
	return MaskedValue
}
