// Package log is the leveled logger shared by every package. Messages go to
// stderr through a charmbracelet/log logger prefixed with "embedcss".
package log

import (
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Level represents the severity of a log message
type Level int

const (
	// LevelDebug is for verbose debugging information
	LevelDebug Level = iota
	// LevelInfo is for important operational events
	LevelInfo
	// LevelWarn is for warnings that don't prevent operation
	LevelWarn
	// LevelError is for errors that may affect functionality
	LevelError
)

var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	Prefix:          "embedcss",
	ReportTimestamp: false,
	ReportCaller:    false,
	Level:           charmlog.InfoLevel,
})

var levels = map[Level]charmlog.Level{
	LevelDebug: charmlog.DebugLevel,
	LevelInfo:  charmlog.InfoLevel,
	LevelWarn:  charmlog.WarnLevel,
	LevelError: charmlog.ErrorLevel,
}

// SetOutput sets the output destination. Nil discards every message.
func SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	logger.SetOutput(w)
}

// SetLevel sets the minimum log level to display
func SetLevel(level Level) {
	if l, ok := levels[level]; ok {
		logger.SetLevel(l)
	}
}

// GetLevel returns the current minimum log level
func GetLevel() Level {
	current := logger.GetLevel()
	for level, l := range levels {
		if l == current {
			return level
		}
	}
	return LevelInfo
}

// Debug logs a debug message (verbose debugging information)
func Debug(format string, args ...any) {
	logger.Debugf(format, args...)
}

// Info logs an info message (important operational events)
func Info(format string, args ...any) {
	logger.Infof(format, args...)
}

// Warn logs a warning message (warnings that don't prevent operation)
func Warn(format string, args ...any) {
	logger.Warnf(format, args...)
}

// Error logs an error message (errors that may affect functionality)
func Error(format string, args ...any) {
	logger.Errorf(format, args...)
}
