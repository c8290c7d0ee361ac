package nesh

import (
	"errors"
	"fmt"

	"github.com/josephlewis42/nesh/core/messages"
)

var (
	// ErrScriptNotFound matches errors for scripts and catalogs that don't exist.
	ErrScriptNotFound = errors.New("script not found")
	// ErrNoResult is returned by SAVE before any command produced output.
	ErrNoResult = errors.New("no command result to save")
	// ErrScriptDepth is returned when RUN NESH nests deeper than MaxScriptDepth.
	ErrScriptDepth = errors.New("script nesting too deep")
)

// ParseError is a malformed statement.
type ParseError struct {
	Line   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	return e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErrorf(line, format string, args ...interface{}) *ParseError {
	return &ParseError{Line: line, Reason: fmt.Sprintf(format, args...)}
}

// parseError wraps err for line. The reason shown to the user is the catalog
// message for key, or err's text when the catalog has none.
func (s *Session) parseError(line string, err error, key string, args messages.Args) *ParseError {
	reason := err.Error()
	if tmpl, ok := s.Messages.Template(key, s.Language); ok {
		reason = messages.Format(tmpl, args)
	}
	return &ParseError{Line: line, Reason: reason, Err: err}
}

// UnknownCommandError is a verb or subverb the interpreter doesn't know.
type UnknownCommandError struct {
	// Verb is set when the unknown word was a subverb.
	Verb    string
	Command string
	// Suggestion is the closest known word, if any.
	Suggestion string
}

func (e *UnknownCommandError) Error() string {
	if e.Verb != "" {
		return fmt.Sprintf("unknown %s subcommand: %s", e.Verb, e.Command)
	}
	return fmt.Sprintf("unknown command: %s", e.Command)
}

// NotFoundError is a missing script or catalog file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrScriptNotFound, e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrScriptNotFound
}

// ExecError is a command that couldn't be started.
type ExecError struct {
	Command string
	Err     error
}

func (e *ExecError) Error() string {
	return e.Err.Error()
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
