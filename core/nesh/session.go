// Package nesh is the statement interpreter: it parses directive lines,
// dispatches them to handlers and forwards everything else to a shell.
package nesh

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/josephlewis42/nesh/core/alias"
	"github.com/josephlewis42/nesh/core/catalog"
	"github.com/josephlewis42/nesh/core/executor"
	"github.com/josephlewis42/nesh/core/logger"
	"github.com/josephlewis42/nesh/core/messages"
	"github.com/josephlewis42/nesh/core/vars"
	"github.com/spf13/afero"
)

// Variables read by the interpreter itself.
const (
	// EnvPwdShow set to the option IN_PROMPT prefixes the prompt with the
	// working directory.
	EnvPwdShow = "NESH_PWD_SHOW"
	// EnvResultHide set to true stops command output from being echoed.
	EnvResultHide = "NESHRC_RESULT_HIDE"

	PwdInPrompt   = "IN_PROMPT"
	DefaultPrompt = "nesh> "

	// exitNotFound is the shell's status for a missing program.
	exitNotFound = 127
)

// Options configures a Session. Nil fields get working defaults.
type Options struct {
	Messages messages.Catalog
	Commands *catalog.Catalog
	Runner   executor.Runner
	Fs       afero.Fs
	Stdout   io.Writer
	Stderr   io.Writer
	Events   *logger.Logger

	// RCPath is the script run by LoadRC and REFLESH.
	RCPath string
	// Language is the initial language name.
	Language string
	// Color enables colored error messages.
	Color bool
	// Environ is the base environment of child processes, os.Environ if nil.
	Environ func() []string
}

// Session is the state shared by every statement of an interpreter run,
// including statements of nested scripts.
type Session struct {
	Vars     *vars.Store
	Aliases  *alias.Table
	Commands *catalog.Catalog
	Messages messages.Catalog
	Language string

	// LastResult is the trimmed stdout of the most recent command.
	LastResult string

	Runner executor.Runner
	Fs     afero.Fs
	Stdout io.Writer
	Stderr io.Writer
	Events *logger.Logger
	RCPath string

	printer *messages.Printer
	environ func() []string
	sleep   func(ctx context.Context, d time.Duration) error
	getwd   func() (string, error)

	depth int
	quit  bool
}

// NewSession creates a session with empty variables and aliases.
func NewSession(opts Options) *Session {
	s := &Session{
		Vars:     vars.NewStore(),
		Aliases:  alias.NewTable(),
		Commands: opts.Commands,
		Messages: opts.Messages,
		Runner:   opts.Runner,
		Fs:       opts.Fs,
		Stdout:   opts.Stdout,
		Stderr:   opts.Stderr,
		Events:   opts.Events,
		RCPath:   opts.RCPath,
		environ:  opts.Environ,
		sleep:    sleepContext,
		getwd:    os.Getwd,
		Language: messages.English,
	}

	if s.Commands == nil {
		s.Commands = catalog.New()
	}
	if s.Messages == nil {
		s.Messages = messages.Catalog{}
	}
	if s.Runner == nil {
		s.Runner = &executor.OSRunner{Stdin: os.Stdin}
	}
	if s.Fs == nil {
		s.Fs = afero.NewOsFs()
	}
	if s.Stdout == nil {
		s.Stdout = io.Discard
	}
	if s.Stderr == nil {
		s.Stderr = s.Stdout
	}
	if s.Events == nil {
		s.Events = logger.Nop()
	}
	if s.environ == nil {
		s.environ = os.Environ
	}

	s.printer = messages.NewPrinter(s.Messages, s.Stdout)
	s.printer.Color = opts.Color

	if opts.Language != "" {
		if lang, ok := messages.NormalizeLanguage(opts.Language); ok {
			s.Language = lang
		}
	}
	return s
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Print writes the message key in the session's language.
func (s *Session) Print(key string, args messages.Args) {
	s.printer.Print(s.Language, key, args)
}

// SetLanguage switches the message language. Unsupported languages are
// reported and English is used instead.
func (s *Session) SetLanguage(name string) {
	lang, ok := messages.NormalizeLanguage(name)
	if !ok {
		s.Print(messages.KeyUnsupportedLanguage, messages.Args{"language": name})
		s.Language = messages.English
		return
	}
	s.Language = lang
	s.Print(messages.KeyLanguageSet, messages.Args{"language": lang})
}

// Quit reports whether EXIT was executed.
func (s *Session) Quit() bool {
	return s.quit
}

// Environ returns the environment of child processes: the base environment
// overlaid with every variable.
func (s *Session) Environ() []string {
	return executor.MergeEnviron(s.environ(), s.Vars.Environ())
}

// Execute runs command, which must already be expanded, through the runner.
// Its trimmed stdout becomes the last result even when empty.
func (s *Session) Execute(ctx context.Context, command string) error {
	result, err := s.Runner.Run(ctx, command, s.Environ())
	if err != nil {
		return &ExecError{Command: command, Err: err}
	}
	s.Events.Exec(command, result.ExitCode)

	s.LastResult = result.Trimmed()
	if result.Stdout != "" && !s.resultHidden() {
		io.WriteString(s.Stdout, result.Stdout)
	}
	if result.Stderr != "" {
		io.WriteString(s.Stderr, result.Stderr)
	}

	if result.ExitCode == exitNotFound {
		if fields := strings.Fields(command); len(fields) > 0 {
			if suggestion, ok := catalog.Suggest(fields[0], s.Candidates()); ok {
				s.Print(messages.KeyDidYouMean, messages.Args{"suggestion": suggestion})
			}
		}
	}
	return nil
}

func (s *Session) resultHidden() bool {
	val, ok := s.Vars.Lookup(EnvResultHide)
	return ok && val.IsTrue()
}

// Candidates returns every word the interpreter knows as a command: verbs,
// aliases and catalog commands.
func (s *Session) Candidates() []string {
	var out []string
	out = append(out, Verbs()...)
	out = append(out, s.Aliases.Names()...)
	out = append(out, s.Commands.Names()...)
	return out
}

// Prompt builds the interactive prompt.
func (s *Session) Prompt() string {
	prompt, ok := s.Messages.Template(messages.KeyPrompt, s.Language)
	if !ok {
		prompt = DefaultPrompt
	}

	if s.Vars.Get(EnvPwdShow) == PwdInPrompt {
		if wd, err := s.getwd(); err == nil {
			prompt = fmt.Sprintf("%s %s", wd, prompt)
		}
	}
	return prompt
}
