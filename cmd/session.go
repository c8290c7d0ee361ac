package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/josephlewis42/nesh/core/catalog"
	"github.com/josephlewis42/nesh/core/config"
	"github.com/josephlewis42/nesh/core/executor"
	"github.com/josephlewis42/nesh/core/logger"
	"github.com/josephlewis42/nesh/core/messages"
	"github.com/josephlewis42/nesh/core/nesh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var noColor bool

// newSession builds an interpreter session from the configuration and runs
// the RC script. The returned function closes the event log.
func newSession(ctx context.Context, cmd *cobra.Command, configuration *config.Configuration) (*nesh.Session, func(), error) {
	fs := configuration.Fs()

	msgs, err := messages.Load(fs, configuration.Messages())
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't load messages: %w", err)
	}

	commands, err := catalog.Load(fs, configuration.Commands())
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't load commands: %w", err)
	}

	events := logger.Nop()
	closer := func() {}
	logFd, err := configuration.OpenEventLog()
	switch {
	case err != nil:
		return nil, nil, fmt.Errorf("couldn't open event log: %w", err)
	case logFd != nil:
		events = logger.NewJsonLinesLogger(logFd).NewSession()
		closer = func() { logFd.Close() }
	}

	s := nesh.NewSession(nesh.Options{
		Messages: msgs,
		Commands: commands,
		Runner:   newRunner(configuration, cmd.InOrStdin()),
		Fs:       fs,
		Stdout:   cmd.OutOrStdout(),
		Stderr:   cmd.ErrOrStderr(),
		Events:   events,
		RCPath:   configuration.RC(),
		Language: configuration.Language,
		Color:    !noColor && isTerminal(cmd.OutOrStdout()),
	})

	if err := s.LoadRC(ctx); err != nil && ctx.Err() == nil {
		s.Report(configuration.RC(), err)
	}
	return s, closer, nil
}

func newRunner(configuration *config.Configuration, stdin io.Reader) executor.Runner {
	switch configuration.Executor {
	case config.ExecutorBuiltin:
		return &executor.InterpRunner{Stdin: stdin}
	default:
		return &executor.OSRunner{Shell: configuration.Shell, Stdin: stdin}
	}
}

func isTerminal(w io.Writer) bool {
	fd, ok := w.(*os.File)
	return ok && term.IsTerminal(int(fd.Fd()))
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored messages")
}
