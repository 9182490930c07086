package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/cmms/internal/wire"
)

// SweepCmd returns the sweep command
func SweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the due-date sweep",
		Long: `Assess every pending task against the clock: promote tasks to
due_today or overdue and escalate long-overdue tasks to urgent.

Runs once and exits. Use --daemon to keep running on the configured
cron schedule.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			daemon, _ := cmd.Flags().GetBool("daemon")

			if !daemon {
				report, err := wire.SweepService().Sweep(context.Background())
				if err != nil {
					return fmt.Errorf("sweep failed: %w", err)
				}
				fmt.Printf("✓ Sweep finished: %d updated (%d overdue, %d due today, %d errors)\n",
					report.Updated, report.Overdue, report.DueToday, report.Errors)
				return nil
			}

			runner := wire.SweepRunner()
			if err := runner.Start(); err != nil {
				return fmt.Errorf("failed to start sweep scheduler: %w", err)
			}
			fmt.Printf("Sweep scheduler running (%s). Ctrl-C to stop.\n", wire.Config().SweepSchedule)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig

			runner.Stop()
			if report := runner.LastReport(); report != nil {
				fmt.Printf("Last sweep: %d updated (%d overdue, %d due today)\n",
					report.Updated, report.Overdue, report.DueToday)
			}
			return nil
		},
	}

	cmd.Flags().Bool("daemon", false, "keep running on the configured cron schedule")

	return cmd
}
