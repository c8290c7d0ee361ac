package nesh

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/josephlewis42/nesh/core/catalog"
	"github.com/josephlewis42/nesh/core/logger"
	"github.com/josephlewis42/nesh/core/messages"
)

// Handler executes one kind of statement.
type Handler interface {
	Handle(ctx context.Context, s *Session, st *Statement) error
}

// HandlerFunc adapts an ordinary function to the Handler interface. The
// built-in statements are all registered this way.
type HandlerFunc func(ctx context.Context, s *Session, st *Statement) error

func (f HandlerFunc) Handle(ctx context.Context, s *Session, st *Statement) error {
	return f(ctx, s, st)
}

var _ Handler = (HandlerFunc)(nil)

// Directive is a statement form known to the interpreter.
type Directive struct {
	Verb    string
	Subverb string
	// Syntax shows the statement's arguments.
	Syntax      string
	Description string
	Handler     Handler
}

// Name is the verb followed by the subverb, if any.
func (d *Directive) Name() string {
	if d.Subverb == "" {
		return d.Verb
	}
	return d.Verb + " " + d.Subverb
}

// AllDirectives holds every registered statement form keyed by Name.
var AllDirectives = make(map[string]*Directive)

func register(d *Directive) {
	AllDirectives[d.Name()] = d
}

// Verbs returns the sorted interpreter verbs.
func Verbs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range AllDirectives {
		if !seen[d.Verb] {
			seen[d.Verb] = true
			out = append(out, d.Verb)
		}
	}
	sort.Strings(out)
	return out
}

// IsVerb reports whether word, in any case, starts an interpreter statement.
func IsVerb(word string) bool {
	word = strings.ToUpper(word)
	for _, d := range AllDirectives {
		if d.Verb == word {
			return true
		}
	}
	return false
}

// Subverbs returns the sorted subverbs of verb, nil for verbs that take none.
func Subverbs(verb string) []string {
	var out []string
	for _, d := range AllDirectives {
		if d.Verb == verb && d.Subverb != "" {
			out = append(out, d.Subverb)
		}
	}
	sort.Strings(out)
	return out
}

// Dispatch runs the handler registered for the statement.
func (s *Session) Dispatch(ctx context.Context, st *Statement) error {
	if !IsVerb(st.Verb) {
		suggestion, _ := catalog.Suggest(st.Verb, s.Candidates())
		return &UnknownCommandError{Command: st.Verb, Suggestion: suggestion}
	}

	if d, ok := AllDirectives[st.Verb]; ok {
		return d.Handler.Handle(ctx, s, st)
	}

	if st.Subverb == "" {
		return parseErrorf(st.Line, "Missing %s subcommand", st.Verb)
	}

	d, ok := AllDirectives[st.Verb+" "+st.Subverb]
	if !ok {
		suggestion, _ := catalog.Suggest(st.Subverb, Subverbs(st.Verb))
		return &UnknownCommandError{Verb: st.Verb, Command: st.Subverb, Suggestion: suggestion}
	}
	return d.Handler.Handle(ctx, s, st)
}

// Eval resolves aliases in line, expands variables and dispatches the
// resulting statement. Blank lines and comments do nothing.
func (s *Session) Eval(ctx context.Context, line string) error {
	return s.eval(ctx, s.Aliases.Resolve(strings.TrimSpace(line)), logger.SourceScript)
}

// EvalInteractive handles a line typed by the user. Lines that start with an
// interpreter verb once aliases are resolved are dispatched, any other line
// is expanded and run as a shell command.
func (s *Session) EvalInteractive(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	resolved := s.Aliases.Resolve(line)
	if fields := strings.Fields(resolved); len(fields) > 0 && IsVerb(fields[0]) {
		return s.eval(ctx, resolved, logger.SourceInteractive)
	}

	s.Events.Statement(logger.SourceInteractive, line)
	return s.Execute(ctx, s.Vars.Expand(resolved))
}

func (s *Session) eval(ctx context.Context, line, source string) error {
	st, err := Parse(expandLine(line, s.Vars))
	if err != nil {
		return err
	}
	if st == nil {
		return nil
	}

	s.Events.Statement(source, st.Line)
	return s.Dispatch(ctx, st)
}

// Report prints err as a message and records it in the event log.
func (s *Session) Report(line string, err error) {
	var (
		parseErr   *ParseError
		unknownErr *UnknownCommandError
		notFound   *NotFoundError
	)

	key := messages.KeyCommandExecutionError
	args := messages.Args{"error": err}

	switch {
	case errors.As(err, &parseErr):
		key = messages.KeyScriptParseError
		args = messages.Args{"error": parseErr.Reason, "line": parseErr.Line}

	case errors.As(err, &unknownErr):
		switch unknownErr.Verb {
		case "":
			key = messages.KeyUnknownCommand
			args = messages.Args{"command": unknownErr.Command}
		case "CREATE":
			key = messages.KeyCreateCommandError
			args = messages.Args{"sub_command": unknownErr.Command}
		default:
			key = messages.KeyUnknownCommand
			args = messages.Args{"command": unknownErr.Verb + " " + unknownErr.Command}
		}

	case errors.As(err, &notFound):
		key = messages.KeyScriptNotFound
		args = messages.Args{"path": notFound.Path}
	}

	s.Print(key, args)
	if unknownErr != nil && unknownErr.Suggestion != "" {
		s.Print(messages.KeyDidYouMean, messages.Args{"suggestion": unknownErr.Suggestion})
	}
	s.Events.Error(key, line, err)
}
