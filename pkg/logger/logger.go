// Package logger provides standardized logging utilities for the Bril interpreter
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Global logger instance
var defaultLogger *slog.Logger

// logFile is the file opened for Config.LogFile, closed by Close
var logFile *os.File

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Config holds logger configuration
type Config struct {
	Level     LogLevel
	Format    string // "text" or "json"
	Output    io.Writer
	AddSource bool
	LogFile   string
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() Config {
	return Config{
		Level:     LevelInfo,
		Format:    "text",
		Output:    os.Stderr,
		AddSource: false,
	}
}

// Init initializes the global logger with the given configuration. A log
// file opened here stays open until Close or the next Init.
func Init(cfg Config) error {
	var handler slog.Handler
	if err := Close(); err != nil {
		return err
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		logFile = file
		output = file
	}

	opts := &slog.HandlerOptions{
		Level:     toSlogLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)

	return nil
}

// InitDev initializes logging for development (debug level, text format,
// source locations) on w
func InitDev(w io.Writer) error {
	return Init(Config{
		Level:     LevelDebug,
		Format:    "text",
		Output:    w,
		AddSource: true,
	})
}

// Close detaches the global logger and closes the log file, if any
func Close() error {
	defaultLogger = nil
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// ParseLevel maps a level name ("debug", "info", "warn", "error") to a LogLevel
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(name) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", name)
}

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Debug(msg, args...)
	}
}

// Info logs an info message
func Info(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Info(msg, args...)
	}
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Warn(msg, args...)
	}
}

// Error logs an error message
func Error(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Error(msg, args...)
	}
}

// Interpreter-specific logging helpers

// LogPhase logs the start of a pipeline phase
func LogPhase(phase string) {
	Debug("Starting phase", "phase", phase)
}

// LogPhaseComplete logs the completion of a pipeline phase
func LogPhaseComplete(phase string, elapsed time.Duration) {
	Debug("Completed phase", "phase", phase, "duration", elapsed.String())
}

// LogProgramLoaded logs a decoded program
func LogProgramLoaded(functionCount int) {
	Debug("Program loaded", "functions", functionCount)
}

// LogBlockBuild logs basic-block construction for one function
func LogBlockBuild(funcName string, blockCount, varCount int) {
	Debug("Basic blocks built", "function", funcName, "blocks", blockCount, "vars", varCount)
}

// LogUnreachable logs blocks no path from the entry reaches
func LogUnreachable(funcName string, count int) {
	Debug("Unreachable blocks", "function", funcName, "count", count)
}

// LogExecutionStart logs the start of a top-level run
func LogExecutionStart(funcName string, args []string, heap string) {
	Info("Executing", "function", funcName, "args", args, "heap", heap)
}

// LogExecutionComplete logs the end of a top-level run
func LogExecutionComplete(instructions uint64, elapsed time.Duration) {
	Info("Execution complete", "instructions", instructions, "duration", elapsed.String())
}

// LogError logs the error that stopped a phase. The CLI reports the error
// itself, so this stays at debug level.
func LogError(phase string, err error) {
	Debug("Phase failed", "phase", phase, "error", err)
}

// LogIgnoredSetting warns about a setting that has no effect
func LogIgnoredSetting(setting, reason string) {
	Warn("Setting ignored", "setting", setting, "reason", reason)
}

// LogHistoryError reports a failure to persist the inspector history
func LogHistoryError(path string, err error) {
	Error("Saving history failed", "path", path, "error", err)
}

// LogConfig logs the effective configuration
func LogConfig(source string, heap string, profile bool) {
	Debug("Configuration", "source", source, "heap", heap, "profile", profile)
}
