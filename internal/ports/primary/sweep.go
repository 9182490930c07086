package primary

import "context"

// SweepService is the time-triggered escalation job. It promotes pending
// tasks to due_today or overdue and escalates long-overdue priorities.
type SweepService interface {
	// Sweep processes every active pending task once. Re-running with no
	// intervening changes yields no further updates. Per-task failures are
	// counted and skipped, never aborting the run.
	Sweep(ctx context.Context) (*SweepReport, error)
}

// SweepReport summarizes one sweep run.
type SweepReport struct {
	Updated  int
	Overdue  int
	DueToday int
	Errors   int
}
