package primary

import (
	"context"
	"time"
)

// Execution completion statuses.
const (
	CompletionCompleted = "completed"
	CompletionSkipped   = "skipped"
	CompletionPending   = "pending"
)

// CompletionService orchestrates the multi-step completion workflow and
// plain execution recording.
type CompletionService interface {
	// Complete marks a task completed: it validates the lifecycle move,
	// writes the execution record and task mutation atomically, then
	// creates a follow-on work order for machine-bound tasks and runs
	// best-effort notification, document generation and audit effects.
	// Success reflects only the committed core; effect failures are logged.
	Complete(ctx context.Context, req CompleteRequest) (*CompleteResult, error)

	// RecordExecution appends an execution record without the full
	// completion workflow. Completed and skipped outcomes advance the
	// task's last-executed and next-due dates; pending does not.
	RecordExecution(ctx context.Context, req RecordExecutionRequest) (*ExecutionRecord, error)
}

// HistoryService is the read-only view over execution history.
type HistoryService interface {
	// ListHistory lists execution records ordered by executed date
	// descending.
	ListHistory(ctx context.Context, filters HistoryFilters) ([]*ExecutionRecord, error)
}

// CompleteRequest contains parameters for completing a task.
type CompleteRequest struct {
	TaskID          int64
	CompletedBy     int64
	Notes           string
	DurationMinutes int
	CreateFollowOn  bool
}

// CompleteResult is the caller-visible outcome of a completion.
// WorkOrderID is set when a follow-on work order was created and linked.
type CompleteResult struct {
	Execution   *ExecutionRecord
	WorkOrderID *int64
}

// RecordExecutionRequest contains parameters for recording an execution.
type RecordExecutionRequest struct {
	TaskID           int64
	AssigneeID       *int64
	CompletedBy      *int64
	CompletionStatus string // defaults to completed
	Notes            string
	DurationMinutes  int
}

// HistoryFilters contains filter options for listing execution history.
type HistoryFilters struct {
	UserID           int64  // 0 = all; otherwise records assigned to or completed by this user
	TaskID           int64  // 0 = all
	CompletionStatus string // "" = any
}

// ExecutionRecord is one immutable execution of a maintenance task.
type ExecutionRecord struct {
	ID               int64
	TaskID           int64
	ExecutedDate     time.Time
	AssigneeID       *int64 // assignee snapshot at execution time
	CompletedBy      *int64
	CompletionStatus string
	Notes            string
	DurationMinutes  int
	WorkOrderID      *int64 // follow-on work order, if any
}
