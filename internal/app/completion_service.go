package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/cmms/internal/core/lifecycle"
	"github.com/example/cmms/internal/core/schedule"
	"github.com/example/cmms/internal/errs"
	"github.com/example/cmms/internal/ports/primary"
	"github.com/example/cmms/internal/ports/secondary"
)

// CompletionServiceImpl implements the CompletionService interface.
type CompletionServiceImpl struct {
	tasks       secondary.TaskRepository
	executions  secondary.ExecutionRepository
	workOrders  secondary.WorkOrderCreator
	notifier    secondary.Notifier
	docs        secondary.DocumentGenerator
	audit       secondary.AuditWriter
	transitions lifecycle.Table
	log         zerolog.Logger
	now         func() time.Time
}

// NewCompletionService creates a new CompletionService with injected
// dependencies.
func NewCompletionService(
	tasks secondary.TaskRepository,
	executions secondary.ExecutionRepository,
	workOrders secondary.WorkOrderCreator,
	notifier secondary.Notifier,
	docs secondary.DocumentGenerator,
	audit secondary.AuditWriter,
	transitions lifecycle.Table,
	log zerolog.Logger,
) *CompletionServiceImpl {
	return &CompletionServiceImpl{
		tasks:       tasks,
		executions:  executions,
		workOrders:  workOrders,
		notifier:    notifier,
		docs:        docs,
		audit:       audit,
		transitions: transitions,
		log:         log,
		now:         time.Now,
	}
}

// postEffect is one best-effort step run after the completion commit.
type postEffect struct {
	name string
	run  func() error
}

// Complete marks a task completed. The execution insert and task mutation
// commit atomically; the follow-on work order and the remaining effects
// run afterwards and never fail the completion.
func (s *CompletionServiceImpl) Complete(ctx context.Context, req primary.CompleteRequest) (*primary.CompleteResult, error) {
	task, err := s.tasks.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	if err := s.transitions.Validate(lifecycle.KindPMTask, task.Status, primary.StatusCompleted); err != nil {
		return nil, err
	}

	now := s.now()
	rec := &secondary.ExecutionRecord{
		TaskID:           task.ID,
		ExecutedDate:     now,
		AssigneeID:       task.AssigneeID,
		CompletedBy:      &req.CompletedBy,
		CompletionStatus: primary.CompletionCompleted,
		Notes:            req.Notes,
		DurationMinutes:  req.DurationMinutes,
	}

	// Completed is terminal for the cycle; a recurring task's next cycle
	// lives in the advanced due-date fields, not in a status reset.
	update := &secondary.TaskDueUpdate{
		TaskID:           task.ID,
		Status:           primary.StatusCompleted,
		LastExecutedDate: now,
		UpdatedAt:        now,
	}
	if task.Type == primary.TypeRecurring {
		if task.FrequencyDays > 0 {
			next := schedule.NextDue(task.Type, task.FrequencyDays, nil, now)
			update.NextDueDate = &next
		}
	} else {
		update.Deactivate = true
	}

	execID, err := s.executions.RecordExecution(ctx, rec, update)
	if err != nil {
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}
	rec.ID = execID

	s.log.Info().Int64("task_id", task.ID).Int64("execution_id", execID).
		Int64("completed_by", req.CompletedBy).Msg("task completed")

	result := &primary.CompleteResult{Execution: execToPrimary(rec)}

	if req.CreateFollowOn && task.MachineID != nil {
		woID, err := s.workOrders.CreateFollowOn(ctx, secondary.FollowOnRequest{
			MachineID:   *task.MachineID,
			AssigneeID:  &req.CompletedBy,
			Title:       fmt.Sprintf("PM follow-up: %s", task.Name),
			Description: fmt.Sprintf("Follow-on from preventive maintenance task #%d", task.ID),
			EventTime:   now,
		})
		if err != nil {
			s.log.Warn().Err(err).Int64("task_id", task.ID).
				Msg("follow-on work order creation failed")
		} else {
			if err := s.executions.LinkWorkOrder(ctx, execID, woID); err != nil {
				s.log.Warn().Err(err).Int64("execution_id", execID).
					Int64("work_order_id", woID).Msg("work order link failed")
			}
			rec.WorkOrderID = &woID
			result.Execution.WorkOrderID = &woID
			result.WorkOrderID = &woID
		}
	}

	completedBy := req.CompletedBy
	effects := []postEffect{
		{"completion_notification", func() error {
			return s.notifier.Notify(ctx, secondary.EventTaskCompleted, task.ID, task.AssigneeID)
		}},
		{"worksheet_document", func() error {
			_, err := s.docs.GenerateWorksheet(ctx, execID, actorName(completedBy))
			return err
		}},
		{"audit_entry", func() error {
			return s.audit.Record(ctx, secondary.AuditEntry{
				Category:    "task",
				Action:      "complete",
				EntityType:  "pm_task",
				EntityID:    task.ID,
				ActorID:     completedBy,
				Description: fmt.Sprintf("maintenance task completed: %s", task.Name),
				Metadata: map[string]any{
					"execution_id":     execID,
					"duration_minutes": req.DurationMinutes,
				},
			})
		}},
	}
	for _, effect := range effects {
		s.runEffect(task.ID, effect)
	}

	return result, nil
}

// RecordExecution appends an execution record outside the completion
// workflow. Completed and skipped outcomes advance the task's
// last-executed and next-due dates in the same transaction.
func (s *CompletionServiceImpl) RecordExecution(ctx context.Context, req primary.RecordExecutionRequest) (*primary.ExecutionRecord, error) {
	status := req.CompletionStatus
	if status == "" {
		status = primary.CompletionCompleted
	}
	switch status {
	case primary.CompletionCompleted, primary.CompletionSkipped, primary.CompletionPending:
	default:
		return nil, errs.Validation("completion_status", "unknown completion status %q", status)
	}

	task, err := s.tasks.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rec := &secondary.ExecutionRecord{
		TaskID:           task.ID,
		ExecutedDate:     now,
		AssigneeID:       req.AssigneeID,
		CompletedBy:      req.CompletedBy,
		CompletionStatus: status,
		Notes:            req.Notes,
		DurationMinutes:  req.DurationMinutes,
	}

	var update *secondary.TaskDueUpdate
	if status != primary.CompletionPending {
		update = &secondary.TaskDueUpdate{
			TaskID:           task.ID,
			LastExecutedDate: now,
			UpdatedAt:        now,
		}
		if task.Type == primary.TypeRecurring {
			next := schedule.NextDue(task.Type, task.FrequencyDays, nil, now)
			update.NextDueDate = &next
		}
	}

	id, err := s.executions.RecordExecution(ctx, rec, update)
	if err != nil {
		return nil, fmt.Errorf("failed to record execution: %w", err)
	}
	rec.ID = id

	s.log.Info().Int64("task_id", task.ID).Int64("execution_id", id).
		Str("status", status).Msg("execution recorded")

	return execToPrimary(rec), nil
}

// runEffect runs one post-commit effect, containing both errors and
// panics so a failing collaborator cannot fail the committed completion.
func (s *CompletionServiceImpl) runEffect(taskID int64, effect postEffect) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Int64("task_id", taskID).Str("effect", effect.name).
				Interface("panic", r).Msg("post-completion effect panicked")
		}
	}()
	if err := effect.run(); err != nil {
		s.log.Warn().Err(err).Int64("task_id", taskID).Str("effect", effect.name).
			Msg("post-completion effect failed")
	}
}

func execToPrimary(r *secondary.ExecutionRecord) *primary.ExecutionRecord {
	return &primary.ExecutionRecord{
		ID:               r.ID,
		TaskID:           r.TaskID,
		ExecutedDate:     r.ExecutedDate,
		AssigneeID:       r.AssigneeID,
		CompletedBy:      r.CompletedBy,
		CompletionStatus: r.CompletionStatus,
		Notes:            r.Notes,
		DurationMinutes:  r.DurationMinutes,
		WorkOrderID:      r.WorkOrderID,
	}
}

// Ensure CompletionServiceImpl implements the interface
var _ primary.CompletionService = (*CompletionServiceImpl)(nil)
