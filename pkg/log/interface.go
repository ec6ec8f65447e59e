// Package log provides a structured logging interface for the maxent toolkit.
//
// The interface is slog-compatible so that training and indexing code can log
// through log/slog, zerolog or zap without caring which one the application
// picked.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("gis.trainer").With(
//	    log.ModelNameKey, "GIS",
//	)
//	logger.Info("Training started",
//	    log.OperationKey, log.OperationTrain,
//	    log.EventsKey, 1000,
//	    log.PredicatesKey, 5000,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with log/slog.
//
// Fields are passed as alternating key/value pairs.
type Logger interface {
	// Debug logs detailed diagnostics such as per-iteration progress.
	Debug(msg string, fields ...any)

	// Info logs general operational information.
	Info(msg string, fields ...any)

	// Warn logs a condition that does not stop the operation.
	Warn(msg string, fields ...any)

	// Error logs an error condition. If the first field is an error it is
	// attached under the "error" key.
	//
	// Example:
	//   logger.Error("Model load failed", err, log.OperationKey, log.OperationLoad)
	Error(msg string, fields ...any)

	// With returns a Logger that adds fields to every record.
	With(fields ...any) Logger

	// Enabled reports whether records at level are emitted.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents the severity of a log message. The values match
// log/slog.
type Level int

const (
	LevelDebug Level = -4 // Detailed diagnostics
	LevelInfo  Level = 0  // General information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
)

// String returns the string representation of the log level.
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

// LoggerProvider creates loggers. Tests install their own provider with
// SetProvider.
type LoggerProvider interface {
	// GetLogger returns the default logger.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum level for all loggers of this provider.
	SetLevel(level Level)
}
