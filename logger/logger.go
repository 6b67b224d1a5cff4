package logger

import (
	"io"
	"log"
	"os"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
	LevelOff
)

// DefaultLevel is used by loggers created with NewDefaultLogger.
var DefaultLevel = LevelInfo

type DefaultLogger struct {
	name  string
	level Level
	out   *log.Logger
}

func NewDefaultLogger(name string) *DefaultLogger {
	return NewLogger(name, os.Stderr, DefaultLevel)
}

func NewLogger(name string, w io.Writer, level Level) *DefaultLogger {
	if w == nil {
		w = io.Discard
	}
	return &DefaultLogger{
		name:  name,
		level: level,
		out:   log.New(w, "", log.LstdFlags),
	}
}

// Discard returns a logger that drops every message.
func Discard() *DefaultLogger {
	return NewLogger("", io.Discard, LevelOff)
}

func (d *DefaultLogger) SetLevel(level Level) {
	d.level = level
}

func (d *DefaultLogger) Debug(format string, args ...any) {
	d.print(LevelDebug, "[DEBUG] ", format, args...)
}

func (d *DefaultLogger) Info(format string, args ...any) {
	d.print(LevelInfo, "[INFO] ", format, args...)
}

func (d *DefaultLogger) Error(format string, args ...any) {
	d.print(LevelError, "[ERROR] ", format, args...)
}

func (d *DefaultLogger) print(level Level, tag, format string, args ...any) {
	if d == nil || level < d.level {
		return
	}
	d.out.Printf(tag+d.name+" | "+format+"\n", args...)
}
