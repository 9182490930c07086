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

// WorkOrderCmd returns the work-order command
func WorkOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "work-order",
		Short: "Manage follow-on work orders",
	}

	cmd.AddCommand(workOrderListCmd())
	cmd.AddCommand(workOrderShowCmd())
	cmd.AddCommand(workOrderCloseCmd())

	return cmd
}

func workOrderListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			machineID, _ := cmd.Flags().GetInt64("machine")
			status, _ := cmd.Flags().GetString("status")

			orders, err := wire.WorkOrderService().List(ctx, primary.WorkOrderFilters{
				MachineID: machineID,
				Status:    status,
			})
			if err != nil {
				return fmt.Errorf("failed to list work orders: %w", err)
			}

			if len(orders) == 0 {
				fmt.Println("No work orders found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMACHINE\tTITLE\tSTATUS\tCREATED")
			for _, wo := range orders {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n",
					wo.ID, wo.MachineID, wo.Title, wo.Status, wo.CreatedAt.Format(dateFormat))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().Int64("machine", 0, "filter by machine ID")
	cmd.Flags().String("status", "", "filter by status (open, closed)")

	return cmd
}

func workOrderShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [work-order-id]",
		Short: "Show work order details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			wo, err := wire.WorkOrderService().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("work order not found: %w", err)
			}

			fmt.Printf("Work order #%d: %s\n", wo.ID, wo.Title)
			if wo.Description != "" {
				fmt.Printf("Description: %s\n", wo.Description)
			}
			fmt.Printf("Machine: %d\n", wo.MachineID)
			fmt.Printf("Status: %s\n", wo.Status)
			if wo.AssigneeID != nil {
				fmt.Printf("Assignee: user %d\n", *wo.AssigneeID)
			}
			fmt.Printf("Created: %s\n", wo.CreatedAt.Format(dateFormat))
			if wo.ClosedAt != nil {
				fmt.Printf("Closed: %s\n", wo.ClosedAt.Format(dateFormat))
			}
			return nil
		},
	}
}

func workOrderCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close [work-order-id]",
		Short: "Close an open work order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := wire.WorkOrderService().Close(ctx, id, wire.Config().ActorID); err != nil {
				return fmt.Errorf("failed to close work order: %w", err)
			}

			fmt.Printf("✓ Closed work order #%d\n", id)
			return nil
		},
	}
}
