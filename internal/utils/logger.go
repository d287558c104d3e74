// internal/utils/logger.go

// Package utils holds the small shared services the rest of the
// module leans on: leveled logging and request rate limiting.
package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel orders message severities for filtering.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

// ParseLevel maps a configuration string to its level. Unknown names
// fall back to InfoLevel, matching the config default.
func ParseLevel(name string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// Logger is the logging surface every package writes to.
type Logger interface {
	Debug(msg string)
	Debugf(format string, args ...interface{})
	Info(msg string)
	Infof(format string, args ...interface{})
	Warn(msg string)
	Warnf(format string, args ...interface{})
	Error(msg string)
	Errorf(format string, args ...interface{})
}

// SimpleLogger writes timestamped lines to one destination, dropping
// anything below its level. Log lines go to stderr so scraped output
// on stdout stays clean. Safe for concurrent use.
type SimpleLogger struct {
	mu    sync.Mutex
	out   io.Writer
	level LogLevel
}

// NewLogger returns a stderr logger at InfoLevel.
func NewLogger() Logger {
	return NewLoggerWithLevel(InfoLevel)
}

// NewLoggerWithLevel returns a stderr logger filtering below level.
func NewLoggerWithLevel(level LogLevel) Logger {
	return &SimpleLogger{out: os.Stderr, level: level}
}

// NewLoggerWithWriter directs log lines elsewhere, for tests and for
// callers that capture their own logs.
func NewLoggerWithWriter(out io.Writer, level LogLevel) Logger {
	return &SimpleLogger{out: out, level: level}
}

func (l *SimpleLogger) Debug(msg string) { l.write(DebugLevel, msg) }
func (l *SimpleLogger) Info(msg string)  { l.write(InfoLevel, msg) }
func (l *SimpleLogger) Warn(msg string)  { l.write(WarnLevel, msg) }
func (l *SimpleLogger) Error(msg string) { l.write(ErrorLevel, msg) }

func (l *SimpleLogger) Debugf(format string, args ...interface{}) {
	l.write(DebugLevel, fmt.Sprintf(format, args...))
}

func (l *SimpleLogger) Infof(format string, args ...interface{}) {
	l.write(InfoLevel, fmt.Sprintf(format, args...))
}

func (l *SimpleLogger) Warnf(format string, args ...interface{}) {
	l.write(WarnLevel, fmt.Sprintf(format, args...))
}

func (l *SimpleLogger) Errorf(format string, args ...interface{}) {
	l.write(ErrorLevel, fmt.Sprintf(format, args...))
}

func (l *SimpleLogger) write(level LogLevel, msg string) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s [%s] %s\n",
		time.Now().Format("2006-01-02 15:04:05"), levelNames[level], msg)
}
