package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/cmms/internal/ports/primary"
	"github.com/example/cmms/internal/wire"
)

// AttachCmd returns the attach command
func AttachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attach [execution-id] [file...]",
		Short: "Attach files to an execution record",
		Long: `Copy files into the execution record's attachment directory and
store their metadata. Missing files are skipped with a warning.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			execID, err := parseID(args[0])
			if err != nil {
				return err
			}

			attached, err := wire.AttachmentService().Attach(ctx, primary.AttachRequest{
				ExecutionRecordID: execID,
				FilePaths:         args[1:],
				UploadedBy:        actorPtr(),
			})
			if err != nil {
				return fmt.Errorf("failed to attach files: %w", err)
			}

			fmt.Printf("✓ Attached %d of %d file(s) to execution #%d\n", len(attached), len(args)-1, execID)
			for _, att := range attached {
				fmt.Printf("  %s (%s, %d bytes)\n", att.OriginalFilename, att.FileType, att.FileSize)
			}
			return nil
		},
	}
}
