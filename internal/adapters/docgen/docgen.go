// Package docgen renders work-request and worksheet documents as plain
// text files in the task's file directory. The full templating engine is a
// separate system; this adapter satisfies the generator contract (invoke
// by id, return a path) for the engine's best-effort document effects.
package docgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/example/cmms/internal/adapters/filesystem"
	"github.com/example/cmms/internal/ports/secondary"
)

// Generator implements secondary.DocumentGenerator.
type Generator struct {
	tasks      secondary.TaskRepository
	executions secondary.ExecutionRepository
	files      *filesystem.FileStore
}

// NewGenerator creates a document generator reading entity data from the
// given repositories and writing into the file store's directory layout.
func NewGenerator(tasks secondary.TaskRepository, executions secondary.ExecutionRepository, files *filesystem.FileStore) *Generator {
	return &Generator{tasks: tasks, executions: executions, files: files}
}

// GenerateWorkRequest writes the work request document for a task and
// returns its path.
func (g *Generator) GenerateWorkRequest(ctx context.Context, taskID int64, requestedBy string) (string, error) {
	task, err := g.tasks.GetByID(ctx, taskID)
	if err != nil {
		return "", err
	}

	dir, err := g.files.TaskDir(taskID)
	if err != nil {
		return "", err
	}

	target := task.Location
	if task.MachineID != nil {
		target = fmt.Sprintf("machine %d", *task.MachineID)
	}

	content := fmt.Sprintf(
		"WORK REQUEST #%d\n\nTask: %s\nTarget: %s\nType: %s\nPriority: %s\nDue: %s\n\n%s\n\nRequested by: %s\n",
		task.ID, task.Name, target, task.Type, task.Priority,
		task.NextDueDate.Format(time.RFC3339), task.Description, requestedBy,
	)

	path := filepath.Join(dir, fmt.Sprintf("work_request_%d.txt", taskID))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write work request: %w", err)
	}
	return path, nil
}

// GenerateWorksheet writes the worksheet document for one execution and
// returns its path.
func (g *Generator) GenerateWorksheet(ctx context.Context, executionID int64, requestedBy string) (string, error) {
	exec, err := g.executions.GetByID(ctx, executionID)
	if err != nil {
		return "", err
	}
	task, err := g.tasks.GetByID(ctx, exec.TaskID)
	if err != nil {
		return "", err
	}

	dir, err := g.files.ExecutionDir(exec.TaskID, executionID)
	if err != nil {
		return "", err
	}

	completedBy := "unknown"
	if exec.CompletedBy != nil {
		completedBy = fmt.Sprintf("user %d", *exec.CompletedBy)
	}

	content := fmt.Sprintf(
		"WORKSHEET #%d\n\nTask: %s (#%d)\nExecuted: %s\nOutcome: %s\nDuration: %d minutes\nCompleted by: %s\n\nNotes:\n%s\n\nGenerated by: %s\n",
		executionID, task.Name, task.ID,
		exec.ExecutedDate.Format(time.RFC3339), exec.CompletionStatus,
		exec.DurationMinutes, completedBy, exec.Notes, requestedBy,
	)

	path := filepath.Join(dir, fmt.Sprintf("worksheet_%d.txt", executionID))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write worksheet: %w", err)
	}
	return path, nil
}

// Ensure Generator implements the interface
var _ secondary.DocumentGenerator = (*Generator)(nil)
