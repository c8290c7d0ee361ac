package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
)

// Event names, stored in the "msg" field of each entry.
const (
	EventStatement = "statement"
	EventExec      = "exec"
	EventError     = "error"
	EventScript    = "script"
)

// Sources a statement can come from.
const (
	SourceInteractive = "interactive"
	SourceScript      = "script"
)

// Logger captures interpreter events.
type Logger struct {
	log *slog.Logger
}

// NewJsonLinesLogger creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJsonLinesLogger(w io.Writer) *Logger {
	return &Logger{
		log: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
}

// Nop creates a Logger that drops every event.
func Nop() *Logger {
	return NewJsonLinesLogger(io.Discard)
}

// NewSession creates a logger with attached session ID.
func (l *Logger) NewSession() *Logger {
	return &Logger{log: l.log.With("session", fmt.Sprintf("%d", rand.Uint64()))}
}

func (l *Logger) enabled() bool {
	return l != nil && l.log != nil
}

// Statement records a statement read from source.
func (l *Logger) Statement(source, line string) {
	if !l.enabled() {
		return
	}
	l.log.LogAttrs(context.Background(), slog.LevelInfo, EventStatement,
		slog.String("source", source),
		slog.String("statement", line),
	)
}

// Exec records a finished external command.
func (l *Logger) Exec(command string, exitCode int) {
	if !l.enabled() {
		return
	}
	l.log.LogAttrs(context.Background(), slog.LevelInfo, EventExec,
		slog.String("command", command),
		slog.Int("exit_code", exitCode),
	)
}

// Error records a failed statement. Kind is the message key the user saw.
func (l *Logger) Error(kind, line string, err error) {
	if !l.enabled() {
		return
	}
	attrs := []slog.Attr{
		slog.String("kind", kind),
		slog.String("statement", line),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.log.LogAttrs(context.Background(), slog.LevelError, EventError, attrs...)
}

// Script records the start of a script at the given nesting depth.
func (l *Logger) Script(path string, depth int) {
	if !l.enabled() {
		return
	}
	l.log.LogAttrs(context.Background(), slog.LevelDebug, EventScript,
		slog.String("path", path),
		slog.Int("depth", depth),
	)
}
