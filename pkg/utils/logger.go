package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) logrusLevel() logrus.Level {
	switch l {
	case LogLevelDebug:
		return logrus.DebugLevel
	case LogLevelWarn:
		return logrus.WarnLevel
	case LogLevelError:
		return logrus.ErrorLevel
	case LogLevelFatal:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// ParseLogLevel converts a level name to a LogLevel, defaulting to info
func ParseLogLevel(name string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	case "fatal":
		return LogLevelFatal
	default:
		return LogLevelInfo
	}
}

// Logger interface defines the logging contract
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})

	SetLevel(level LogLevel)
	SetOutput(w io.Writer)
	SetFormat(format LogFormat)

	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// LogFormat represents the log output format
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

// ParseLogFormat converts a format name to a LogFormat, defaulting to text
func ParseLogFormat(name string) LogFormat {
	if strings.EqualFold(strings.TrimSpace(name), "json") {
		return LogFormatJSON
	}
	return LogFormatText
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level       LogLevel
	Format      LogFormat
	Output      io.Writer
	FilePath    string // also write to this file when set
	EnableColor bool
}

// DefaultLoggerConfig returns a default logger configuration
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:       LogLevelInfo,
		Format:      LogFormatText,
		Output:      os.Stderr,
		EnableColor: true,
	}
}

// StoreLogger is the main logger implementation
type StoreLogger struct {
	base  *logrus.Logger
	entry *logrus.Entry
	file  *os.File
}

// NewLogger creates a new logger with the given configuration
func NewLogger(config *LoggerConfig) (*StoreLogger, error) {
	if config == nil {
		config = DefaultLoggerConfig()
	}

	base := logrus.New()
	logger := &StoreLogger{
		base:  base,
		entry: logrus.NewEntry(base),
	}

	logger.SetLevel(config.Level)
	logger.setFormatter(config.Format, config.EnableColor)

	if err := logger.setupOutput(config.Output, config.FilePath); err != nil {
		return nil, fmt.Errorf("failed to setup logger output: %w", err)
	}

	return logger, nil
}

// setupOutput configures the logger output
func (l *StoreLogger) setupOutput(output io.Writer, filePath string) error {
	if output == nil {
		output = os.Stderr
	}

	if filePath != "" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		l.file = file
		output = io.MultiWriter(output, file)
	}

	l.base.SetOutput(output)
	return nil
}

func (l *StoreLogger) setFormatter(format LogFormat, color bool) {
	switch format {
	case LogFormatJSON:
		l.base.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	default:
		l.base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			DisableColors:   !color,
		})
	}
}

// Debug logs a debug message
func (l *StoreLogger) Debug(msg string, args ...interface{}) {
	l.entry.Debugf(msg, args...)
}

// Info logs an info message
func (l *StoreLogger) Info(msg string, args ...interface{}) {
	l.entry.Infof(msg, args...)
}

// Warn logs a warning message
func (l *StoreLogger) Warn(msg string, args ...interface{}) {
	l.entry.Warnf(msg, args...)
}

// Error logs an error message
func (l *StoreLogger) Error(msg string, args ...interface{}) {
	l.entry.Errorf(msg, args...)
}

// Fatal logs a fatal message and exits
func (l *StoreLogger) Fatal(msg string, args ...interface{}) {
	l.entry.Fatalf(msg, args...)
}

// SetLevel sets the logging level
func (l *StoreLogger) SetLevel(level LogLevel) {
	l.base.SetLevel(level.logrusLevel())
}

// SetOutput sets the output writer
func (l *StoreLogger) SetOutput(w io.Writer) {
	l.base.SetOutput(w)
}

// SetFormat sets the log format
func (l *StoreLogger) SetFormat(format LogFormat) {
	l.setFormatter(format, false)
}

// WithField returns a logger with an additional field
func (l *StoreLogger) WithField(key string, value interface{}) Logger {
	return &StoreLogger{
		base:  l.base,
		entry: l.entry.WithField(key, value),
		file:  l.file,
	}
}

// WithFields returns a logger with additional fields
func (l *StoreLogger) WithFields(fields map[string]interface{}) Logger {
	return &StoreLogger{
		base:  l.base,
		entry: l.entry.WithFields(logrus.Fields(fields)),
		file:  l.file,
	}
}

// Close closes the logger and any open files
func (l *StoreLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// NopLogger returns a logger that discards everything
func NopLogger() Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return &StoreLogger{base: base, entry: logrus.NewEntry(base)}
}

var (
	globalMu     sync.RWMutex
	globalLogger Logger
)

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(config *LoggerConfig) error {
	logger, err := NewLogger(config)
	if err != nil {
		return err
	}

	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
	return nil
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() Logger {
	globalMu.RLock()
	logger := globalLogger
	globalMu.RUnlock()
	if logger != nil {
		return logger
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		// Initialize with default config if not set
		globalLogger, _ = NewLogger(DefaultLoggerConfig())
	}
	return globalLogger
}

// Convenience functions for global logger
func Debug(msg string, args ...interface{}) {
	GetGlobalLogger().Debug(msg, args...)
}

func Info(msg string, args ...interface{}) {
	GetGlobalLogger().Info(msg, args...)
}

func Warn(msg string, args ...interface{}) {
	GetGlobalLogger().Warn(msg, args...)
}

func Error(msg string, args ...interface{}) {
	GetGlobalLogger().Error(msg, args...)
}

func Fatal(msg string, args ...interface{}) {
	GetGlobalLogger().Fatal(msg, args...)
}
