package cmd

import (
	"os"
	"os/signal"

	"github.com/josephlewis42/nesh/core/messages"
	"github.com/spf13/cobra"
)

// runCmd runs scripts non-interactively
var runCmd = &cobra.Command{
	Use:   "run SCRIPT...",
	Short: "Run nesh scripts in a single session.",
	Long: `Run each script in order after the RC file. Lines that fail are reported
and the script continues, EXIT stops everything.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		s, closer, err := newSession(ctx, cmd, configuration)
		if err != nil {
			return err
		}
		defer closer()

		for _, path := range args {
			if s.Quit() {
				break
			}
			err := s.RunFile(ctx, path)
			switch {
			case ctx.Err() != nil:
				s.Print(messages.KeyExit, nil)
				return nil
			case err != nil:
				s.Report(path, err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
