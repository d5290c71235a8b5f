// Package logger provides leveled logging with debug, info, warn, and error
// levels. It wraps the standard log package with level-based filtering so
// callers never need a logger handle.
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Level represents a logging level.
type Level int

const (
	// DebugLevel logs are voluminous and usually disabled in production.
	DebugLevel Level = iota
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs need attention but not individual human review.
	WarnLevel
	// ErrorLevel logs are high-priority failures.
	ErrorLevel
)

// ParseLevel maps a level name to its Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

var (
	level Level = InfoLevel
	out         = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
)

// Init configures the package-level logger. format "text" adds caller
// file:line to each entry.
func Init(levelName, format string) {
	level = ParseLevel(levelName)
	flags := log.LstdFlags | log.Lmicroseconds
	if strings.ToLower(format) == "text" {
		flags |= log.Lshortfile
	}
	out = log.New(os.Stderr, "", flags)
}

func emit(l Level, tag, format string, args ...any) {
	if level > l {
		return
	}
	_ = out.Output(3, fmt.Sprintf(tag+format, args...))
}

// Debug logs a message at DebugLevel.
func Debug(format string, args ...any) { emit(DebugLevel, "[DEBUG] ", format, args...) }

// Info logs a message at InfoLevel.
func Info(format string, args ...any) { emit(InfoLevel, "[INFO] ", format, args...) }

// Warn logs a message at WarnLevel.
func Warn(format string, args ...any) { emit(WarnLevel, "[WARN] ", format, args...) }

// Error logs a message at ErrorLevel.
func Error(format string, args ...any) { emit(ErrorLevel, "[ERROR] ", format, args...) }

// Fatal logs a message and exits.
func Fatal(format string, args ...any) {
	_ = out.Output(2, fmt.Sprintf("[FATAL] "+format, args...))
	os.Exit(1)
}
