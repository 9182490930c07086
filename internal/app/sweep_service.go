package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/cmms/internal/core/schedule"
	"github.com/example/cmms/internal/ports/primary"
	"github.com/example/cmms/internal/ports/secondary"
)

// SweepServiceImpl implements the SweepService interface.
type SweepServiceImpl struct {
	tasks secondary.TaskRepository
	audit secondary.AuditWriter
	log   zerolog.Logger
	now   func() time.Time
}

// NewSweepService creates a new SweepService with injected dependencies.
func NewSweepService(tasks secondary.TaskRepository, audit secondary.AuditWriter, log zerolog.Logger) *SweepServiceImpl {
	return &SweepServiceImpl{tasks: tasks, audit: audit, log: log, now: time.Now}
}

// Sweep assesses every active pending task against the clock. Tasks due
// today move to due_today, past-due tasks move to overdue, and tasks more
// than a week overdue are escalated to urgent priority. Already-promoted
// tasks are not selected again, so a rerun with no intervening changes is
// a no-op.
func (s *SweepServiceImpl) Sweep(ctx context.Context) (*primary.SweepReport, error) {
	now := s.now()
	records, err := s.tasks.List(ctx, secondary.TaskFilters{Status: primary.StatusPending})
	if err != nil {
		return nil, err
	}

	report := &primary.SweepReport{}
	for _, task := range records {
		if task.NextDueDate.IsZero() {
			continue
		}

		assessment := schedule.Assess(now, task.NextDueDate, task.Priority)
		if assessment.NewStatus == "" {
			continue
		}

		priority := task.Priority
		if assessment.EscalatePriority {
			priority = primary.PriorityUrgent
		}
		if err := s.tasks.UpdateStatusPriority(ctx, task.ID, assessment.NewStatus, priority, now); err != nil {
			s.log.Error().Err(err).Int64("task_id", task.ID).Msg("sweep update failed")
			report.Errors++
			continue
		}

		report.Updated++
		switch assessment.NewStatus {
		case primary.StatusOverdue:
			report.Overdue++
		case primary.StatusDueToday:
			report.DueToday++
		}

		event := s.log.Info().Int64("task_id", task.ID).
			Str("status", assessment.NewStatus).
			Int("days_overdue", assessment.DaysOverdue)
		if assessment.EscalatePriority {
			event = event.Str("priority", priority)
		}
		event.Msg("task escalated")
	}

	if report.Updated > 0 {
		if err := s.audit.Record(ctx, secondary.AuditEntry{
			Category:    "scheduler",
			Action:      "sweep",
			EntityType:  "pm_task",
			ActorID:     0,
			Description: "due-date sweep",
			Metadata: map[string]any{
				"updated":   report.Updated,
				"overdue":   report.Overdue,
				"due_today": report.DueToday,
				"errors":    report.Errors,
			},
		}); err != nil {
			s.log.Warn().Err(err).Msg("sweep audit entry failed")
		}
	}

	s.log.Info().Int("updated", report.Updated).Int("overdue", report.Overdue).
		Int("due_today", report.DueToday).Int("errors", report.Errors).
		Msg("sweep finished")
	return report, nil
}

// Ensure SweepServiceImpl implements the interface
var _ primary.SweepService = (*SweepServiceImpl)(nil)
