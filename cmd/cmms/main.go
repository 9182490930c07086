package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/cmms/internal/cli"
	"github.com/example/cmms/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "cmms",
		Short:   "CMMS - preventive maintenance scheduling engine",
		Version: version.String(),
		Long: `cmms manages preventive maintenance tasks: recurring schedules,
due-date sweeps, completion workflows with follow-on work orders,
execution history and attachments.`,
	}

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.TaskCmd())
	rootCmd.AddCommand(cli.RecordCmd())
	rootCmd.AddCommand(cli.HistoryCmd())
	rootCmd.AddCommand(cli.AttachCmd())
	rootCmd.AddCommand(cli.WorkOrderCmd())
	rootCmd.AddCommand(cli.SweepCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
