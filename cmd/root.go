package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log"

	"github.com/josephlewis42/nesh/core/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var cfgPath string

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(afero.NewOsFs(), cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// rootCmd starts an interactive session when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nesh",
	Short: "Natural English shell",
	Long: `nesh reads English-like statements such as CREATE VAR or RUN CMD and
passes every other line to the system shell.`,
	Args: cobra.ExactArgs(0),
	RunE: runShell,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultDir, "config directory")
}
