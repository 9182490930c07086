// Package app implements the primary service ports. Services hold no
// state beyond their injected dependencies; every public operation takes
// an explicit actor where attribution matters and resolves the clock once
// per request.
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

var validPriorities = map[string]bool{
	primary.PriorityLow:    true,
	primary.PriorityNormal: true,
	primary.PriorityHigh:   true,
	primary.PriorityUrgent: true,
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	tasks       secondary.TaskRepository
	notifier    secondary.Notifier
	docs        secondary.DocumentGenerator
	audit       secondary.AuditWriter
	transitions lifecycle.Table
	log         zerolog.Logger
	now         func() time.Time
}

// NewTaskService creates a new TaskService with injected dependencies.
func NewTaskService(
	tasks secondary.TaskRepository,
	notifier secondary.Notifier,
	docs secondary.DocumentGenerator,
	audit secondary.AuditWriter,
	transitions lifecycle.Table,
	log zerolog.Logger,
) *TaskServiceImpl {
	return &TaskServiceImpl{
		tasks:       tasks,
		notifier:    notifier,
		docs:        docs,
		audit:       audit,
		transitions: transitions,
		log:         log,
		now:         time.Now,
	}
}

// Create validates the request, computes the next due date and persists
// the task. Notification, work-request document and audit entry follow
// best-effort.
func (s *TaskServiceImpl) Create(ctx context.Context, req primary.CreateTaskRequest) (*primary.MaintenanceTask, error) {
	if req.Name == "" {
		return nil, errs.Validation("name", "task name is required")
	}

	switch req.Target.Kind {
	case primary.TargetMachine:
		if req.Target.MachineID <= 0 {
			return nil, errs.Validation("target", "machine target needs a machine id")
		}
	case primary.TargetLocation:
		if req.Target.Location == "" {
			return nil, errs.Validation("target", "location target needs a location")
		}
	default:
		return nil, errs.Validation("target", "either a machine or a location must be given")
	}

	taskType := req.Type
	if taskType == "" {
		taskType = primary.TypeRecurring
	}
	if taskType != primary.TypeRecurring && taskType != primary.TypeOneTime {
		return nil, errs.Validation("task_type", "unknown task type %q", taskType)
	}

	priority := req.Priority
	if priority == "" {
		priority = primary.PriorityNormal
	}
	if !validPriorities[priority] {
		return nil, errs.Validation("priority", "unknown priority %q", priority)
	}

	if req.FrequencyDays < 0 {
		return nil, errs.Validation("frequency_days", "frequency must be positive")
	}
	if taskType == primary.TypeRecurring && req.FrequencyDays == 0 && req.DueDate == nil {
		return nil, errs.Validation("frequency_days", "recurring tasks need a frequency or an explicit due date")
	}

	now := s.now()
	record := &secondary.TaskRecord{
		Location:                 req.Target.Location,
		Name:                     req.Name,
		Description:              req.Description,
		Type:                     taskType,
		FrequencyDays:            req.FrequencyDays,
		Priority:                 priority,
		Status:                   primary.StatusPending,
		DueDate:                  req.DueDate,
		NextDueDate:              schedule.NextDue(taskType, req.FrequencyDays, req.DueDate, now),
		EstimatedDurationMinutes: req.EstimatedDurationMinutes,
		AssigneeID:               req.AssigneeID,
		CreatedBy:                req.CreatedBy,
		IsActive:                 true,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	if req.Target.Kind == primary.TargetMachine {
		machineID := req.Target.MachineID
		record.MachineID = &machineID
	}

	id, err := s.tasks.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	record.ID = id

	s.log.Info().Int64("task_id", id).Str("name", req.Name).Msg("task created")

	s.bestEffort("assignment_notification", id, func() error {
		return s.notifier.Notify(ctx, secondary.EventTaskAssigned, id, req.AssigneeID)
	})
	s.bestEffort("work_request_document", id, func() error {
		_, err := s.docs.GenerateWorkRequest(ctx, id, actorName(req.CreatedBy))
		return err
	})
	s.bestEffort("audit_entry", id, func() error {
		return s.audit.Record(ctx, secondary.AuditEntry{
			Category:    "task",
			Action:      "create",
			EntityType:  "pm_task",
			EntityID:    id,
			ActorID:     req.CreatedBy,
			Description: fmt.Sprintf("maintenance task created: %s", req.Name),
			Metadata: map[string]any{
				"task_type": taskType,
				"priority":  priority,
			},
		})
	})

	return recordToTask(record), nil
}

// Get retrieves a task by ID.
func (s *TaskServiceImpl) Get(ctx context.Context, taskID int64) (*primary.MaintenanceTask, error) {
	record, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return recordToTask(record), nil
}

// Update applies the non-nil fields of the request. Status changes are
// validated against the lifecycle table before anything is written.
func (s *TaskServiceImpl) Update(ctx context.Context, req primary.UpdateTaskRequest) (*primary.MaintenanceTask, error) {
	record, err := s.tasks.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	assigneeChanged := false

	if req.Name != nil && *req.Name != record.Name {
		if *req.Name == "" {
			return nil, errs.Validation("name", "task name is required")
		}
		changes["name"] = change(record.Name, *req.Name)
		record.Name = *req.Name
	}
	if req.Description != nil && *req.Description != record.Description {
		changes["description"] = change(record.Description, *req.Description)
		record.Description = *req.Description
	}
	if req.Priority != nil && *req.Priority != record.Priority {
		if !validPriorities[*req.Priority] {
			return nil, errs.Validation("priority", "unknown priority %q", *req.Priority)
		}
		changes["priority"] = change(record.Priority, *req.Priority)
		record.Priority = *req.Priority
	}
	if req.Status != nil && *req.Status != record.Status {
		if err := s.transitions.Validate(lifecycle.KindPMTask, record.Status, *req.Status); err != nil {
			return nil, err
		}
		changes["status"] = change(record.Status, *req.Status)
		record.Status = *req.Status
	}
	if req.FrequencyDays != nil && *req.FrequencyDays != record.FrequencyDays {
		if *req.FrequencyDays < 0 {
			return nil, errs.Validation("frequency_days", "frequency must be positive")
		}
		changes["frequency_days"] = change(record.FrequencyDays, *req.FrequencyDays)
		record.FrequencyDays = *req.FrequencyDays
	}
	if req.DueDate != nil {
		changes["due_date"] = change(record.DueDate, *req.DueDate)
		record.DueDate = req.DueDate
		record.NextDueDate = *req.DueDate
	}
	if req.EstimatedDurationMinutes != nil && *req.EstimatedDurationMinutes != record.EstimatedDurationMinutes {
		changes["estimated_duration_minutes"] = change(record.EstimatedDurationMinutes, *req.EstimatedDurationMinutes)
		record.EstimatedDurationMinutes = *req.EstimatedDurationMinutes
	}
	if req.AssigneeID != nil {
		old := record.AssigneeID
		if old == nil || *old != *req.AssigneeID {
			changes["assignee_id"] = change(old, *req.AssigneeID)
			record.AssigneeID = req.AssigneeID
			assigneeChanged = true
		}
	}

	if len(changes) == 0 {
		return recordToTask(record), nil
	}

	record.UpdatedAt = s.now()
	if err := s.tasks.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if assigneeChanged {
		s.bestEffort("assignment_notification", record.ID, func() error {
			return s.notifier.Notify(ctx, secondary.EventTaskAssigned, record.ID, record.AssigneeID)
		})
	}
	s.bestEffort("audit_entry", record.ID, func() error {
		return s.audit.Record(ctx, secondary.AuditEntry{
			Category:    "task",
			Action:      "update",
			EntityType:  "pm_task",
			EntityID:    record.ID,
			ActorID:     req.ActorID,
			Description: fmt.Sprintf("maintenance task updated: %s", record.Name),
			Metadata:    map[string]any{"changes": changes},
		})
	})

	return recordToTask(record), nil
}

// Deactivate soft-deletes a task.
func (s *TaskServiceImpl) Deactivate(ctx context.Context, taskID, actorID int64) error {
	record, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	if err := s.tasks.Deactivate(ctx, taskID, s.now()); err != nil {
		return fmt.Errorf("failed to deactivate task: %w", err)
	}

	s.bestEffort("audit_entry", taskID, func() error {
		return s.audit.Record(ctx, secondary.AuditEntry{
			Category:    "task",
			Action:      "deactivate",
			EntityType:  "pm_task",
			EntityID:    taskID,
			ActorID:     actorID,
			Description: fmt.Sprintf("maintenance task deactivated: %s", record.Name),
		})
	})
	return nil
}

// ListDue lists active tasks ordered by next due date.
func (s *TaskServiceImpl) ListDue(ctx context.Context, req primary.ListDueRequest) ([]*primary.MaintenanceTask, error) {
	filters := secondary.TaskFilters{AssigneeScope: req.AssigneeID}
	if !req.IncludeFuture {
		ref := s.now()
		if req.ReferenceTime != nil {
			ref = *req.ReferenceTime
		}
		filters.DueOnOrBefore = &ref
	}

	records, err := s.tasks.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}
	return recordsToTasks(records), nil
}

// ListTasks lists active tasks visible to a user.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]*primary.MaintenanceTask, error) {
	records, err := s.tasks.List(ctx, secondary.TaskFilters{
		VisibleTo: filters.UserID,
		Status:    filters.Status,
		MachineID: filters.MachineID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return recordsToTasks(records), nil
}

// bestEffort runs a post-operation effect, logging failure instead of
// surfacing it.
func (s *TaskServiceImpl) bestEffort(name string, taskID int64, fn func() error) {
	if err := fn(); err != nil {
		s.log.Warn().Err(err).Int64("task_id", taskID).Str("effect", name).
			Msg("best-effort effect failed")
	}
}

func actorName(userID int64) string {
	if userID == 0 {
		return "system"
	}
	return fmt.Sprintf("user_%d", userID)
}

func change(from, to any) map[string]any {
	return map[string]any{"old": fmt.Sprintf("%v", from), "new": fmt.Sprintf("%v", to)}
}

// Helper mappers shared across services.

func recordToTask(r *secondary.TaskRecord) *primary.MaintenanceTask {
	target := primary.LocationTarget(r.Location)
	if r.MachineID != nil {
		target = primary.MachineTarget(*r.MachineID)
	}
	return &primary.MaintenanceTask{
		ID:                       r.ID,
		Target:                   target,
		Name:                     r.Name,
		Description:              r.Description,
		Type:                     r.Type,
		FrequencyDays:            r.FrequencyDays,
		Priority:                 r.Priority,
		Status:                   r.Status,
		DueDate:                  r.DueDate,
		NextDueDate:              r.NextDueDate,
		LastExecutedDate:         r.LastExecutedDate,
		EstimatedDurationMinutes: r.EstimatedDurationMinutes,
		AssigneeID:               r.AssigneeID,
		CreatedBy:                r.CreatedBy,
		IsActive:                 r.IsActive,
		CreatedAt:                r.CreatedAt,
		UpdatedAt:                r.UpdatedAt,
	}
}

func recordsToTasks(records []*secondary.TaskRecord) []*primary.MaintenanceTask {
	tasks := make([]*primary.MaintenanceTask, len(records))
	for i, r := range records {
		tasks[i] = recordToTask(r)
	}
	return tasks
}

// Ensure TaskServiceImpl implements the interface
var _ primary.TaskService = (*TaskServiceImpl)(nil)
