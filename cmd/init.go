package cmd

import (
	"log"

	"github.com/josephlewis42/nesh/core/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// initCmd seeds a config directory that nesh and nesh run can start from.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up a nesh config directory.",
	Long: `Write config.yaml with the command and message catalogs into the --config
directory, then write the starter RC script where config.yaml points. Files that
already exist are left as they are, so edited catalogs survive a second init.`,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "", 0)

		_, err := config.Initialize(afero.NewOsFs(), cfgPath, logger)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
