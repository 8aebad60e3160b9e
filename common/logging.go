/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package common holds cross-cutting facilities shared by every pdfscript
// package, starting with logging.
package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// Logger is the interface used for logging throughout pdfscript.
type Logger interface {
	Error(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Notice(format string, args ...interface{})
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
	Trace(format string, args ...interface{})
	IsLogLevel(level LogLevel) bool
}

// DummyLogger discards everything. It is the default.
type DummyLogger struct{}

// Error does nothing for the dummy logger.
func (DummyLogger) Error(format string, args ...interface{}) {}

// Warning does nothing for the dummy logger.
func (DummyLogger) Warning(format string, args ...interface{}) {}

// Notice does nothing for the dummy logger.
func (DummyLogger) Notice(format string, args ...interface{}) {}

// Info does nothing for the dummy logger.
func (DummyLogger) Info(format string, args ...interface{}) {}

// Debug does nothing for the dummy logger.
func (DummyLogger) Debug(format string, args ...interface{}) {}

// Trace does nothing for the dummy logger.
func (DummyLogger) Trace(format string, args ...interface{}) {}

// IsLogLevel always returns true for the dummy logger.
func (DummyLogger) IsLogLevel(level LogLevel) bool { return true }

// LogLevel is the verbosity level for logging.
type LogLevel int

// Log levels, from least to most verbose. The most important logs have the
// lowest values (error = 0, trace = 5).
const (
	LogLevelTrace   LogLevel = 5
	LogLevelDebug   LogLevel = 4
	LogLevelInfo    LogLevel = 3
	LogLevelNotice  LogLevel = 2
	LogLevelWarning LogLevel = 1
	LogLevelError   LogLevel = 0
)

// ConsoleLogger writes logs to os.Stdout.
type ConsoleLogger struct {
	LogLevel LogLevel
}

// NewConsoleLogger returns a console logger at the given level.
func NewConsoleLogger(logLevel LogLevel) *ConsoleLogger {
	return &ConsoleLogger{LogLevel: logLevel}
}

// IsLogLevel returns true if the logger's level is at least `level`.
func (l ConsoleLogger) IsLogLevel(level LogLevel) bool {
	return l.LogLevel >= level
}

// Error logs an error message.
func (l ConsoleLogger) Error(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelError {
		logToWriter(os.Stdout, "[ERROR] ", format, args...)
	}
}

// Warning logs a warning message.
func (l ConsoleLogger) Warning(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelWarning {
		logToWriter(os.Stdout, "[WARNING] ", format, args...)
	}
}

// Notice logs a notice message.
func (l ConsoleLogger) Notice(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelNotice {
		logToWriter(os.Stdout, "[NOTICE] ", format, args...)
	}
}

// Info logs an info message.
func (l ConsoleLogger) Info(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelInfo {
		logToWriter(os.Stdout, "[INFO] ", format, args...)
	}
}

// Debug logs a debug message.
func (l ConsoleLogger) Debug(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelDebug {
		logToWriter(os.Stdout, "[DEBUG] ", format, args...)
	}
}

// Trace logs a trace message.
func (l ConsoleLogger) Trace(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelTrace {
		logToWriter(os.Stdout, "[TRACE] ", format, args...)
	}
}

func logToWriter(f io.Writer, prefix string, format string, args ...interface{}) {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file, line = "???", 0
	} else {
		file = filepath.Base(file)
	}
	fmt.Fprintf(f, prefix+"%s:%d "+format+"\n", append([]interface{}{file, line}, args...)...)
}

// Log is the package-level logger used throughout pdfscript. Replace it
// with SetLogger.
var Log Logger = DummyLogger{}

// SetLogger installs `logger` as the package-level logger.
func SetLogger(logger Logger) {
	Log = logger
}
