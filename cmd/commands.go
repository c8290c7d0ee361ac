package cmd

import (
	"fmt"

	"github.com/josephlewis42/nesh/core/catalog"
	"github.com/josephlewis42/nesh/core/nesh"
	"github.com/spf13/cobra"
)

var showStatements bool

// commandsCmd lists the command catalog
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Show the command catalog used for completion.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		commands, err := catalog.Load(configuration.Fs(), configuration.Commands())
		if err != nil {
			return err
		}

		if showStatements {
			for _, verb := range nesh.Verbs() {
				fmt.Fprintln(cmd.OutOrStdout(), verb)
			}
		}

		catalog.Render(cmd.OutOrStdout(), commands)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commandsCmd)
	commandsCmd.Flags().BoolVar(&showStatements, "verbs", false, "also list the statement verbs")
}
