// Package logger provides leveled logging on top of the standard log
// package: debug, info, warn and error levels with formatted output and
// level-based filtering configured once at startup.
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
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = map[string]Level{
	"debug": DebugLevel,
	"info":  InfoLevel,
	"warn":  WarnLevel,
	"error": ErrorLevel,
}

type leveledLogger struct {
	level  Level
	logger *log.Logger
}

var defaultLogger *leveledLogger

// Init initializes the package logger with the given level and format.
// Unknown levels fall back to info. The "text" format adds source
// locations; anything else keeps timestamps only.
func Init(level, format string) {
	l, ok := levelNames[strings.ToLower(level)]
	if !ok {
		l = InfoLevel
	}

	flags := log.LstdFlags | log.Lmicroseconds
	if strings.ToLower(format) == "text" {
		flags |= log.Lshortfile
	}

	defaultLogger = &leveledLogger{
		level:  l,
		logger: log.New(os.Stderr, "", flags),
	}
}

func output(l Level, tag, format string, args ...interface{}) {
	if defaultLogger == nil || defaultLogger.level > l {
		return
	}
	_ = defaultLogger.logger.Output(3, fmt.Sprintf(tag+format, args...))
}

// Debug logs a message at DebugLevel.
func Debug(format string, args ...interface{}) {
	output(DebugLevel, "[DEBUG] ", format, args...)
}

// Info logs a message at InfoLevel.
func Info(format string, args ...interface{}) {
	output(InfoLevel, "[INFO] ", format, args...)
}

// Warn logs a message at WarnLevel.
func Warn(format string, args ...interface{}) {
	output(WarnLevel, "[WARN] ", format, args...)
}

// Error logs a message at ErrorLevel.
func Error(format string, args ...interface{}) {
	output(ErrorLevel, "[ERROR] ", format, args...)
}

// Fatal logs a message and exits.
func Fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf("[FATAL] "+format, args...)
	if defaultLogger != nil {
		_ = defaultLogger.logger.Output(2, msg)
	} else {
		log.Print(msg)
	}
	os.Exit(1)
}
