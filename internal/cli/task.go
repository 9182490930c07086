// Package cli contains the cobra commands of the cmms binary.
package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/cmms/internal/ports/primary"
	"github.com/example/cmms/internal/wire"
)

const dateFormat = "2006-01-02"

// TaskCmd returns the task command
func TaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage preventive maintenance tasks",
		Long:  "Create, list, update, complete, and deactivate preventive maintenance tasks.",
	}

	cmd.AddCommand(taskCreateCmd())
	cmd.AddCommand(taskListCmd())
	cmd.AddCommand(taskShowCmd())
	cmd.AddCommand(taskDueCmd())
	cmd.AddCommand(taskUpdateCmd())
	cmd.AddCommand(taskCompleteCmd())
	cmd.AddCommand(taskDeactivateCmd())

	return cmd
}

func taskCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new maintenance task",
		Long: `Create a new preventive maintenance task bound to a machine or a location.

Exactly one of --machine and --location must be given.

Examples:
  cmms task create "Lubricate spindle" --machine 7 --every 30
  cmms task create "Check extinguishers" --location "assembly hall" --due 2025-09-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			machineID, _ := cmd.Flags().GetInt64("machine")
			location, _ := cmd.Flags().GetString("location")
			description, _ := cmd.Flags().GetString("description")
			taskType, _ := cmd.Flags().GetString("type")
			frequency, _ := cmd.Flags().GetInt("every")
			priority, _ := cmd.Flags().GetString("priority")
			dueStr, _ := cmd.Flags().GetString("due")
			duration, _ := cmd.Flags().GetInt("duration")
			assignee, _ := cmd.Flags().GetInt64("assignee")

			req := primary.CreateTaskRequest{
				Name:                     args[0],
				Description:              description,
				Type:                     taskType,
				FrequencyDays:            frequency,
				Priority:                 priority,
				EstimatedDurationMinutes: duration,
				CreatedBy:                wire.Config().ActorID,
			}
			if machineID != 0 {
				req.Target = primary.MachineTarget(machineID)
			} else if location != "" {
				req.Target = primary.LocationTarget(location)
			}
			if dueStr != "" {
				due, err := time.Parse(dateFormat, dueStr)
				if err != nil {
					return fmt.Errorf("invalid --due date %q (want YYYY-MM-DD)", dueStr)
				}
				req.DueDate = &due
			}
			if assignee != 0 {
				req.AssigneeID = &assignee
			}

			task, err := wire.TaskService().Create(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to create task: %w", err)
			}

			fmt.Printf("✓ Created task #%d: %s\n", task.ID, task.Name)
			fmt.Printf("  Target: %s\n", formatTarget(task.Target))
			fmt.Printf("  Next due: %s\n", task.NextDueDate.Format(dateFormat))
			if task.AssigneeID != nil {
				fmt.Printf("  Assignee: user %d\n", *task.AssigneeID)
			}
			return nil
		},
	}

	cmd.Flags().Int64("machine", 0, "machine ID the task is performed on")
	cmd.Flags().String("location", "", "free-text location the task is performed at")
	cmd.Flags().String("description", "", "task description")
	cmd.Flags().String("type", "", "task type: recurring or one_time (default recurring)")
	cmd.Flags().Int("every", 0, "frequency in days for recurring tasks")
	cmd.Flags().String("priority", "", "priority: low, normal, high, urgent (default normal)")
	cmd.Flags().String("due", "", "explicit due date (YYYY-MM-DD)")
	cmd.Flags().Int("duration", 0, "estimated duration in minutes")
	cmd.Flags().Int64("assignee", 0, "assignee user ID (omit for globally assigned)")

	return cmd
}

func taskListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List maintenance tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			status, _ := cmd.Flags().GetString("status")
			machineID, _ := cmd.Flags().GetInt64("machine")
			mine, _ := cmd.Flags().GetBool("mine")

			filters := primary.TaskFilters{Status: status, MachineID: machineID}
			if mine {
				filters.UserID = wire.Config().ActorID
			}

			tasks, err := wire.TaskService().ListTasks(ctx, filters)
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}

			if len(tasks) == 0 {
				fmt.Println("No tasks found.")
				return nil
			}

			printTaskTable(tasks)
			return nil
		},
	}

	cmd.Flags().String("status", "", "filter by status (pending, due_today, overdue, completed)")
	cmd.Flags().Int64("machine", 0, "filter by machine ID")
	cmd.Flags().Bool("mine", false, "only tasks visible to the configured actor")

	return cmd
}

func taskDueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "due",
		Short: "List tasks that are due",
		Long:  "List active tasks due on or before today, soonest first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			all, _ := cmd.Flags().GetBool("all")
			mine, _ := cmd.Flags().GetBool("mine")

			req := primary.ListDueRequest{IncludeFuture: all}
			if mine {
				req.AssigneeID = wire.Config().ActorID
			}

			tasks, err := wire.TaskService().ListDue(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to list due tasks: %w", err)
			}

			if len(tasks) == 0 {
				fmt.Println("Nothing due. 🎉")
				return nil
			}

			printTaskTable(tasks)
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "include tasks due in the future")
	cmd.Flags().Bool("mine", false, "only global tasks and tasks assigned to the configured actor")

	return cmd
}

func taskShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [task-id]",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}

			task, err := wire.TaskService().Get(ctx, taskID)
			if err != nil {
				return fmt.Errorf("task not found: %w", err)
			}

			fmt.Printf("Task #%d: %s\n", task.ID, task.Name)
			if task.Description != "" {
				fmt.Printf("Description: %s\n", task.Description)
			}
			fmt.Printf("Target: %s\n", formatTarget(task.Target))
			fmt.Printf("Type: %s\n", task.Type)
			if task.FrequencyDays > 0 {
				fmt.Printf("Frequency: every %d days\n", task.FrequencyDays)
			}
			fmt.Printf("Status: %s\n", formatStatus(task.Status))
			fmt.Printf("Priority: %s\n", formatPriority(task.Priority))
			fmt.Printf("Next due: %s\n", task.NextDueDate.Format(dateFormat))
			if task.LastExecutedDate != nil {
				fmt.Printf("Last executed: %s\n", task.LastExecutedDate.Format(dateFormat))
			}
			if task.EstimatedDurationMinutes > 0 {
				fmt.Printf("Estimated duration: %d minutes\n", task.EstimatedDurationMinutes)
			}
			if task.AssigneeID != nil {
				fmt.Printf("Assignee: user %d\n", *task.AssigneeID)
			} else {
				fmt.Println("Assignee: everyone")
			}
			if !task.IsActive {
				fmt.Println("Inactive: yes")
			}
			fmt.Printf("Created: %s by user %d\n", task.CreatedAt.Format(dateFormat), task.CreatedBy)
			return nil
		},
	}
}

func taskUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [task-id]",
		Short: "Update task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}

			req := primary.UpdateTaskRequest{TaskID: taskID, ActorID: wire.Config().ActorID}
			if cmd.Flags().Changed("name") {
				name, _ := cmd.Flags().GetString("name")
				req.Name = &name
			}
			if cmd.Flags().Changed("description") {
				description, _ := cmd.Flags().GetString("description")
				req.Description = &description
			}
			if cmd.Flags().Changed("status") {
				status, _ := cmd.Flags().GetString("status")
				req.Status = &status
			}
			if cmd.Flags().Changed("priority") {
				priority, _ := cmd.Flags().GetString("priority")
				req.Priority = &priority
			}
			if cmd.Flags().Changed("every") {
				frequency, _ := cmd.Flags().GetInt("every")
				req.FrequencyDays = &frequency
			}
			if cmd.Flags().Changed("due") {
				dueStr, _ := cmd.Flags().GetString("due")
				due, err := time.Parse(dateFormat, dueStr)
				if err != nil {
					return fmt.Errorf("invalid --due date %q (want YYYY-MM-DD)", dueStr)
				}
				req.DueDate = &due
			}
			if cmd.Flags().Changed("duration") {
				duration, _ := cmd.Flags().GetInt("duration")
				req.EstimatedDurationMinutes = &duration
			}
			if cmd.Flags().Changed("assignee") {
				assignee, _ := cmd.Flags().GetInt64("assignee")
				req.AssigneeID = &assignee
			}

			task, err := wire.TaskService().Update(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to update task: %w", err)
			}

			fmt.Printf("✓ Updated task #%d: %s\n", task.ID, task.Name)
			return nil
		},
	}

	cmd.Flags().String("name", "", "new name")
	cmd.Flags().String("description", "", "new description")
	cmd.Flags().String("status", "", "new status")
	cmd.Flags().String("priority", "", "new priority")
	cmd.Flags().Int("every", 0, "new frequency in days")
	cmd.Flags().String("due", "", "new due date (YYYY-MM-DD)")
	cmd.Flags().Int("duration", 0, "new estimated duration in minutes")
	cmd.Flags().Int64("assignee", 0, "new assignee user ID")

	return cmd
}

func taskCompleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete [task-id]",
		Short: "Mark a task completed",
		Long: `Complete a maintenance task: records the execution, reschedules
recurring tasks, and optionally opens a follow-on work order for
machine-bound tasks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			notes, _ := cmd.Flags().GetString("notes")
			duration, _ := cmd.Flags().GetInt("duration")
			followOn, _ := cmd.Flags().GetBool("work-order")
			attachPaths, _ := cmd.Flags().GetStringSlice("attach")

			result, err := wire.CompletionService().Complete(ctx, primary.CompleteRequest{
				TaskID:          taskID,
				CompletedBy:     wire.Config().ActorID,
				Notes:           notes,
				DurationMinutes: duration,
				CreateFollowOn:  followOn,
			})
			if err != nil {
				return fmt.Errorf("failed to complete task: %w", err)
			}

			fmt.Printf("✓ Completed task #%d (execution #%d)\n", taskID, result.Execution.ID)
			if result.WorkOrderID != nil {
				fmt.Printf("  Opened work order #%d\n", *result.WorkOrderID)
			}

			if len(attachPaths) > 0 {
				attached, err := wire.AttachmentService().Attach(ctx, primary.AttachRequest{
					ExecutionRecordID: result.Execution.ID,
					FilePaths:         attachPaths,
					UploadedBy:        actorPtr(),
				})
				if err != nil {
					return fmt.Errorf("completed, but attaching files failed: %w", err)
				}
				fmt.Printf("  Attached %d of %d file(s)\n", len(attached), len(attachPaths))
			}
			return nil
		},
	}

	cmd.Flags().String("notes", "", "completion notes")
	cmd.Flags().Int("duration", 0, "actual duration in minutes")
	cmd.Flags().Bool("work-order", false, "open a follow-on work order (machine tasks only)")
	cmd.Flags().StringSlice("attach", nil, "files to attach to the completion")

	return cmd
}

func taskDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate [task-id]",
		Short: "Deactivate a task",
		Long:  "Soft-delete a task. Its execution history is kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := wire.TaskService().Deactivate(ctx, taskID, wire.Config().ActorID); err != nil {
				return fmt.Errorf("failed to deactivate task: %w", err)
			}

			fmt.Printf("✓ Deactivated task #%d\n", taskID)
			return nil
		},
	}
}

func printTaskTable(tasks []*primary.MaintenanceTask) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTARGET\tSTATUS\tPRIORITY\tNEXT DUE")
	for _, task := range tasks {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			task.ID, task.Name, formatTarget(task.Target),
			formatStatus(task.Status), formatPriority(task.Priority),
			task.NextDueDate.Format(dateFormat),
		)
	}
	w.Flush()
}

func formatTarget(target primary.Target) string {
	if target.Kind == primary.TargetMachine {
		return fmt.Sprintf("machine %d", target.MachineID)
	}
	return target.Location
}

func formatStatus(status string) string {
	switch status {
	case primary.StatusOverdue:
		return color.New(color.FgRed).Sprint(status)
	case primary.StatusDueToday:
		return color.New(color.FgYellow).Sprint(status)
	case primary.StatusCompleted:
		return color.New(color.FgGreen).Sprint(status)
	default:
		return status
	}
}

func formatPriority(priority string) string {
	switch priority {
	case primary.PriorityUrgent:
		return color.New(color.FgHiRed).Sprint(priority)
	case primary.PriorityHigh:
		return color.New(color.FgYellow).Sprint(priority)
	default:
		return priority
	}
}
