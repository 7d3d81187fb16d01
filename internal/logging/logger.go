// Package logging defines the printf-style logging contract used across
// fabula and a file-backed default implementation. Components receive a
// Logger; nothing in the core packages writes to stdout directly.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// Logger is a minimal printf-style logging contract.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Nop returns a logger that discards all output.
func Nop() Logger {
	return nopLogger{}
}

// OrNop returns logger when non-nil, otherwise a no-op logger.
func OrNop(logger Logger) Logger {
	if logger == nil {
		return Nop()
	}
	return logger
}

// Level is the severity of a log message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

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
	}
	return "?"
}

// fileLogger is the shared sink behind every component logger.
type fileLogger struct {
	mu     sync.Mutex
	out    *log.Logger
	level  Level
	closer io.Closer
}

var (
	sinkOnce sync.Once
	sink     *fileLogger
)

// defaultSink opens (once) the fabula-debug.log file in the user's home
// directory. If the file cannot be opened, logging degrades to stderr.
func defaultSink() *fileLogger {
	sinkOnce.Do(func() {
		sink = &fileLogger{level: LevelInfo, out: log.New(os.Stderr, "", 0)}
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		path := filepath.Join(home, "fabula-debug.log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return
		}
		sink.out = log.New(f, "", 0)
		sink.closer = f
	})
	return sink
}

// SetLevel adjusts the minimum severity written by component loggers.
func SetLevel(level Level) {
	s := defaultSink()
	s.mu.Lock()
	s.level = level
	s.mu.Unlock()
}

func (s *fileLogger) write(level Level, component, format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if level < s.level {
		return
	}
	_, file, line, ok := runtime.Caller(2)
	caller := "???"
	if ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	msg := fmt.Sprintf(format, args...)
	s.out.Printf("%s [%s] [%s] %s %s",
		time.Now().Format("2006-01-02 15:04:05.000"), level, component, caller, msg)
}

// componentLogger tags every message with a component name.
type componentLogger struct {
	sink      *fileLogger
	component string
}

// NewComponentLogger returns the default application logger scoped to a
// component.
func NewComponentLogger(component string) Logger {
	return &componentLogger{sink: defaultSink(), component: component}
}

func (l *componentLogger) Debug(format string, args ...any) {
	l.sink.write(LevelDebug, l.component, format, args...)
}

func (l *componentLogger) Info(format string, args ...any) {
	l.sink.write(LevelInfo, l.component, format, args...)
}

func (l *componentLogger) Warn(format string, args ...any) {
	l.sink.write(LevelWarn, l.component, format, args...)
}

func (l *componentLogger) Error(format string, args ...any) {
	l.sink.write(LevelError, l.component, format, args...)
}
