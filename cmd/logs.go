package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/josephlewis42/nesh/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var logsCmd = &cobra.Command{
	Use:     "logs",
	Aliases: []string{"log", "events"},
	Short:   "Explore the event log.",
}

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Show a report of events.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		report := logger.NewReport()
		if err := readEventLog(cmd, report.Update); err != nil {
			return err
		}
		return printYAML(cmd.OutOrStdout(), report)
	},
}

var sessionsCommand = &cobra.Command{
	Use:   "sessions",
	Short: "Show the statements of each session.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		var report logger.SessionReport
		if err := readEventLog(cmd, report.Update); err != nil {
			return err
		}
		return printYAML(cmd.OutOrStdout(), &report)
	},
}

var errorsCommand = &cobra.Command{
	Use:   "errors",
	Short: "List failed statements.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Time", "Kind", "Statement", "Error"})

		err := readEventLog(cmd, func(le *logger.LogEntry) {
			if le.Event != logger.EventError {
				return
			}
			t.AppendRow(table.Row{le.Time.Format(time.RFC3339), le.Kind, le.Statement, le.Error})
		})
		if err != nil {
			return err
		}

		t.Render()
		return nil
	},
}

func readEventLog(cmd *cobra.Command, handler func(le *logger.LogEntry)) error {
	cmd.SilenceUsage = true

	config, err := loadConfig()
	if err != nil {
		return err
	}
	if config.EventLogPath == "" {
		return fmt.Errorf("the event log is disabled in the configuration")
	}

	fd, err := config.ReadEventLog()
	if err != nil {
		return err
	}
	defer fd.Close()

	return logger.ReadJSONLinesLog(fd, handler)
}

func printYAML(w io.Writer, v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, string(out))
	return nil
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(reportCommand)
	logsCmd.AddCommand(sessionsCommand)
	logsCmd.AddCommand(errorsCommand)
}
