// Package logging wraps zerolog with the defaults used across the toolkit:
// a console writer on stderr, timestamps, and a process-wide logger that
// packages without an injected logger fall back to.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a logger built by New.
type Option func(*options)

type options struct {
	writer io.Writer
	level  zerolog.Level
	caller bool
}

// WithWriter sends log output to w instead of a console writer on stderr.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.writer = w
		}
	}
}

// WithLevel sets the minimum level emitted by the logger.
func WithLevel(level zerolog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithCaller annotates every event with the file and line that produced it.
func WithCaller() Option {
	return func(o *options) {
		o.caller = true
	}
}

// New builds a zerolog.Logger from the supplied options.
func New(opts ...Option) zerolog.Logger {
	o := options{level: zerolog.InfoLevel}
	for _, opt := range opts {
		opt(&o)
	}
	if o.writer == nil {
		o.writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}
	}

	ctx := zerolog.New(o.writer).Level(o.level).With().Timestamp()
	if o.caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// ParseLevel maps a textual level to zerolog. An empty string means info and
// anything unrecognised maps to error.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.ErrorLevel
	}
	return level
}

var (
	mu     sync.RWMutex
	global = New()
)

// L returns the process-wide logger.
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := global
	return &l
}

// SetGlobal replaces the process-wide logger.
func SetGlobal(l zerolog.Logger) {
	mu.Lock()
	global = l
	mu.Unlock()
}
