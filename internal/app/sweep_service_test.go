package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/cmms/internal/ports/primary"
	"github.com/example/cmms/internal/ports/secondary"
)

func newSweepFixture(now time.Time) (*SweepServiceImpl, *mockTaskRepository, *mockAuditWriter) {
	tasks := newMockTaskRepository()
	audit := newMockAuditWriter()
	svc := NewSweepService(tasks, audit, testLogger())
	svc.now = testClock(now)
	return svc, tasks, audit
}

func TestSweepPromotesDueAndOverdueTasks(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	svc, tasks, audit := newSweepFixture(now)

	dueToday := seedTask(tasks, func(task *secondary.TaskRecord) {
		task.Name = "due today"
		task.NextDueDate = time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC)
	})
	overdue := seedTask(tasks, func(task *secondary.TaskRecord) {
		task.Name = "three days overdue"
		task.NextDueDate = now.AddDate(0, 0, -3)
	})
	future := seedTask(tasks, func(task *secondary.TaskRecord) {
		task.Name = "due next week"
		task.NextDueDate = now.AddDate(0, 0, 7)
	})

	report, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	if report.Updated != 2 || report.DueToday != 1 || report.Overdue != 1 || report.Errors != 0 {
		t.Errorf("report = %+v, want 2 updated (1 due today, 1 overdue)", report)
	}
	if got := tasks.tasks[dueToday.ID].Status; got != primary.StatusDueToday {
		t.Errorf("due-today task status = %q", got)
	}
	if got := tasks.tasks[overdue.ID].Status; got != primary.StatusOverdue {
		t.Errorf("overdue task status = %q", got)
	}
	if got := tasks.tasks[overdue.ID].Priority; got != primary.PriorityNormal {
		t.Errorf("three days overdue must not escalate priority, got %q", got)
	}
	if got := tasks.tasks[future.ID].Status; got != primary.StatusPending {
		t.Errorf("future task must stay pending, got %q", got)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != "sweep" {
		t.Errorf("expected one sweep audit entry, got %+v", audit.entries)
	}
}

func TestSweepEscalatesLongOverdueToUrgent(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	svc, tasks, _ := newSweepFixture(now)

	week := seedTask(tasks, func(task *secondary.TaskRecord) {
		task.Name = "exactly a week overdue"
		task.NextDueDate = now.AddDate(0, 0, -7)
	})
	beyond := seedTask(tasks, func(task *secondary.TaskRecord) {
		task.Name = "eight days overdue"
		task.NextDueDate = now.AddDate(0, 0, -8)
	})
	alreadyUrgent := seedTask(tasks, func(task *secondary.TaskRecord) {
		task.Name = "already urgent"
		task.Priority = primary.PriorityUrgent
		task.NextDueDate = now.AddDate(0, 0, -30)
	})

	if _, err := svc.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	if got := tasks.tasks[week.ID].Priority; got != primary.PriorityNormal {
		t.Errorf("seven days overdue stays at %q, got %q", primary.PriorityNormal, got)
	}
	if got := tasks.tasks[beyond.ID].Priority; got != primary.PriorityUrgent {
		t.Errorf("eight days overdue should be urgent, got %q", got)
	}
	if got := tasks.tasks[alreadyUrgent.ID].Priority; got != primary.PriorityUrgent {
		t.Errorf("urgent task priority = %q, want urgent", got)
	}
	if got := tasks.tasks[alreadyUrgent.ID].Status; got != primary.StatusOverdue {
		t.Errorf("urgent task status = %q, want overdue", got)
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	svc, tasks, _ := newSweepFixture(now)

	seedTask(tasks, func(task *secondary.TaskRecord) {
		task.NextDueDate = now.AddDate(0, 0, -2)
	})

	first, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("first sweep failed: %v", err)
	}
	if first.Updated != 1 {
		t.Fatalf("first sweep updated = %d, want 1", first.Updated)
	}

	second, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if second.Updated != 0 {
		t.Errorf("second sweep updated = %d, want 0", second.Updated)
	}
}

func TestSweepSelectsOnlyPendingTasks(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	svc, tasks, _ := newSweepFixture(now)

	completed := seedTask(tasks, func(task *secondary.TaskRecord) {
		task.Status = primary.StatusCompleted
		task.NextDueDate = now.AddDate(0, 0, -10)
	})

	report, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if report.Updated != 0 {
		t.Errorf("updated = %d, want 0", report.Updated)
	}
	if tasks.lastFilters.Status != primary.StatusPending {
		t.Errorf("sweep must select pending tasks only, filter = %+v", tasks.lastFilters)
	}
	if got := tasks.tasks[completed.ID].Status; got != primary.StatusCompleted {
		t.Errorf("completed task status = %q", got)
	}
}

func TestSweepSkipsTasksWithoutDueDate(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	svc, tasks, _ := newSweepFixture(now)

	seedTask(tasks, func(task *secondary.TaskRecord) {
		task.NextDueDate = time.Time{}
	})

	report, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if report.Updated != 0 || report.Errors != 0 {
		t.Errorf("report = %+v, want untouched", report)
	}
}

func TestSweepIsolatesPerTaskFailures(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	svc, tasks, _ := newSweepFixture(now)

	broken := seedTask(tasks, func(task *secondary.TaskRecord) {
		task.NextDueDate = now.AddDate(0, 0, -2)
	})
	healthy := seedTask(tasks, func(task *secondary.TaskRecord) {
		task.NextDueDate = now.AddDate(0, 0, -2)
	})
	tasks.statusErrFor[broken.ID] = errors.New("row locked")

	report, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep itself must not fail: %v", err)
	}
	if report.Errors != 1 || report.Updated != 1 {
		t.Errorf("report = %+v, want 1 updated and 1 error", report)
	}
	if got := tasks.tasks[healthy.ID].Status; got != primary.StatusOverdue {
		t.Errorf("healthy task status = %q, want overdue", got)
	}
}
