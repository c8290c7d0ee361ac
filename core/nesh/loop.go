package nesh

import (
	"context"
	"io"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/nesh/core/messages"
)

// LineReader reads interactive input, *readline.Instance implements it.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

var _ LineReader = (*readline.Instance)(nil)

// Interactive reads and evaluates lines until EXIT, "exit", "quit",
// end of input or an interrupt. Cancelling ctx, for example on SIGINT while
// a statement blocks, ends the session like an interrupt at the prompt.
func (s *Session) Interactive(ctx context.Context, rl LineReader) error {
	for !s.quit {
		if ctx.Err() != nil {
			s.Print(messages.KeyExit, nil)
			return nil
		}

		rl.SetPrompt(s.Prompt())
		line, err := rl.Readline()

		switch {
		case err == io.EOF, err == readline.ErrInterrupt:
			s.Print(messages.KeyExit, nil)
			return nil

		case err != nil:
			return err

		case isExitWord(line):
			s.Print(messages.KeyExit, nil)
			return nil
		}

		if err := s.EvalInteractive(ctx, line); err != nil && ctx.Err() == nil {
			s.Report(line, err)
		}
	}
	return nil
}

func isExitWord(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "exit", "quit":
		return true
	}
	return false
}
