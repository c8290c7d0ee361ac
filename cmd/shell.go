package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/nesh/core/messages"
	"github.com/josephlewis42/nesh/core/nesh"
	"github.com/spf13/cobra"
)

var commandLine string

// runShell starts the interactive session.
func runShell(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	configuration, err := loadConfig()
	if err != nil {
		return err
	}

	// SIGINT while a statement runs ends the session instead of the process.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	s, closer, err := newSession(ctx, cmd, configuration)
	if err != nil {
		return err
	}
	defer closer()

	if commandLine != "" {
		err := s.EvalInteractive(ctx, commandLine)
		switch {
		case ctx.Err() != nil:
			s.Print(messages.KeyExit, nil)
		case err != nil:
			s.Report(commandLine, err)
		}
		return nil
	}

	if s.Quit() {
		return nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.Prompt(),
		HistoryFile:     configuration.History(),
		AutoComplete:    &nesh.Completer{Session: s},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("couldn't start line editor: %w", err)
	}
	defer rl.Close()

	return s.Interactive(ctx, rl)
}

func init() {
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single line and exit")
}
