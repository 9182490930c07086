package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/cmms/internal/ports/primary"
	"github.com/example/cmms/internal/wire"
)

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show execution history",
		Long:  "List recorded task executions, newest first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, _ := cmd.Flags().GetInt64("task")
			status, _ := cmd.Flags().GetString("status")
			mine, _ := cmd.Flags().GetBool("mine")

			filters := primary.HistoryFilters{TaskID: taskID, CompletionStatus: status}
			if mine {
				filters.UserID = wire.Config().ActorID
			}

			records, err := wire.HistoryService().ListHistory(ctx, filters)
			if err != nil {
				return fmt.Errorf("failed to list history: %w", err)
			}

			if len(records) == 0 {
				fmt.Println("No execution records found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTASK\tEXECUTED\tOUTCOME\tDURATION\tWORK ORDER")
			for _, rec := range records {
				workOrder := "-"
				if rec.WorkOrderID != nil {
					workOrder = fmt.Sprintf("#%d", *rec.WorkOrderID)
				}
				fmt.Fprintf(w, "%d\t#%d\t%s\t%s\t%dm\t%s\n",
					rec.ID, rec.TaskID, rec.ExecutedDate.Format(dateFormat),
					rec.CompletionStatus, rec.DurationMinutes, workOrder,
				)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().Int64("task", 0, "only executions of this task")
	cmd.Flags().String("status", "", "filter by outcome (completed, skipped, pending)")
	cmd.Flags().Bool("mine", false, "only executions assigned to or completed by the configured actor")

	return cmd
}

// RecordCmd returns the record command
func RecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record [task-id]",
		Short: "Record a task execution",
		Long: `Record an execution without the full completion workflow.
Completed and skipped outcomes advance the task's schedule; pending
records leave the task untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, _ := cmd.Flags().GetString("status")
			notes, _ := cmd.Flags().GetString("notes")
			duration, _ := cmd.Flags().GetInt("duration")

			rec, err := wire.CompletionService().RecordExecution(ctx, primary.RecordExecutionRequest{
				TaskID:           taskID,
				CompletedBy:      actorPtr(),
				CompletionStatus: status,
				Notes:            notes,
				DurationMinutes:  duration,
			})
			if err != nil {
				return fmt.Errorf("failed to record execution: %w", err)
			}

			fmt.Printf("✓ Recorded %s execution #%d for task #%d\n", rec.CompletionStatus, rec.ID, rec.TaskID)
			return nil
		},
	}

	cmd.Flags().String("status", "", "outcome: completed, skipped, pending (default completed)")
	cmd.Flags().String("notes", "", "execution notes")
	cmd.Flags().Int("duration", 0, "duration in minutes")

	return cmd
}
