package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/cmms/internal/config"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Long:  "Create ~/.cmms/config.json with the given settings.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			filesDir, _ := cmd.Flags().GetString("files")
			schedule, _ := cmd.Flags().GetString("schedule")
			actorID, _ := cmd.Flags().GetInt64("actor")

			dir, err := config.DefaultDir()
			if err != nil {
				return err
			}

			cfg := (&config.Config{
				DBPath:        dbPath,
				FilesDir:      filesDir,
				SweepSchedule: schedule,
				ActorID:       actorID,
			}).WithDefaults()

			if err := config.Save(dir, cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Println("✓ Wrote .cmms/config.json")
			fmt.Printf("  Sweep schedule: %s\n", cfg.SweepSchedule)
			if cfg.ActorID != 0 {
				fmt.Printf("  Actor: user %d\n", cfg.ActorID)
			}
			return nil
		},
	}

	cmd.Flags().String("db", "", "sqlite database path (default ~/.cmms/cmms.db)")
	cmd.Flags().String("files", "", "attachment directory (default ~/.cmms/files)")
	cmd.Flags().String("schedule", "", "cron spec for the due-date sweep")
	cmd.Flags().Int64("actor", 0, "user ID recorded for CLI actions")

	return cmd
}
