// Package secondary defines the repository and collaborator interfaces the
// application services depend on. Implementations live under
// internal/adapters.
package secondary

import (
	"context"
	"time"
)

// TaskRecord is the persistence shape of a maintenance task. Exactly one
// of MachineID and Location is set; NextDueDate is zero only for legacy
// rows that never had a due date computed.
type TaskRecord struct {
	ID                       int64
	MachineID                *int64
	Location                 string
	Name                     string
	Description              string
	Type                     string
	FrequencyDays            int
	Priority                 string
	Status                   string
	DueDate                  *time.Time
	NextDueDate              time.Time
	LastExecutedDate         *time.Time
	EstimatedDurationMinutes int
	AssigneeID               *int64
	CreatedBy                int64
	IsActive                 bool
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// TaskFilters narrows task listings. Zero values mean "any".
type TaskFilters struct {
	Status          string
	MachineID       int64
	AssigneeScope   int64      // global tasks plus tasks assigned to this user
	VisibleTo       int64      // global, assigned-to or created-by this user
	DueOnOrBefore   *time.Time
	IncludeInactive bool
}

// TaskDueUpdate is the task-side mutation applied together with an
// execution insert. Zero-value fields are left unchanged.
type TaskDueUpdate struct {
	TaskID           int64
	Status           string     // "" = unchanged
	LastExecutedDate time.Time
	NextDueDate      *time.Time // nil = unchanged
	Deactivate       bool
	UpdatedAt        time.Time
}

// TaskRepository persists maintenance tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *TaskRecord) (int64, error)
	GetByID(ctx context.Context, id int64) (*TaskRecord, error)
	// List returns matching tasks ordered by next due date ascending.
	List(ctx context.Context, filters TaskFilters) ([]*TaskRecord, error)
	// Update saves the task's mutable fields.
	Update(ctx context.Context, task *TaskRecord) error
	// UpdateStatusPriority changes only status and priority; used by the
	// sweeper so it never touches other concurrently edited fields.
	UpdateStatusPriority(ctx context.Context, id int64, status, priority string, updatedAt time.Time) error
	Deactivate(ctx context.Context, id int64, updatedAt time.Time) error
}

// ExecutionRecord is the persistence shape of one task execution.
// Rows are append-only.
type ExecutionRecord struct {
	ID               int64
	TaskID           int64
	ExecutedDate     time.Time
	AssigneeID       *int64
	CompletedBy      *int64
	CompletionStatus string
	Notes            string
	DurationMinutes  int
	WorkOrderID      *int64
}

// HistoryFilters narrows execution history listings. Zero values mean "any".
type HistoryFilters struct {
	UserID           int64
	TaskID           int64
	CompletionStatus string
}

// ExecutionRepository persists execution records.
type ExecutionRepository interface {
	// RecordExecution inserts the execution record and, when update is
	// non-nil, applies the task mutation in the same transaction. Partial
	// completion is never observable.
	RecordExecution(ctx context.Context, rec *ExecutionRecord, update *TaskDueUpdate) (int64, error)
	GetByID(ctx context.Context, id int64) (*ExecutionRecord, error)
	// List returns matching records ordered by executed date descending.
	List(ctx context.Context, filters HistoryFilters) ([]*ExecutionRecord, error)
	// LinkWorkOrder sets the follow-on work order reference on an
	// execution record. Runs outside the completion transaction.
	LinkWorkOrder(ctx context.Context, executionID, workOrderID int64) error
}

// AttachmentRecord is the persistence shape of an attachment.
type AttachmentRecord struct {
	ID                int64
	ExecutionRecordID int64
	FilePath          string
	OriginalFilename  string
	FileType          string
	FileSize          int64
	UploadedBy        *int64
}

// AttachmentRepository persists attachment metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, att *AttachmentRecord) (int64, error)
	ListByExecution(ctx context.Context, executionID int64) ([]*AttachmentRecord, error)
}

// WorkOrderRecord is the persistence shape of a follow-on work order.
type WorkOrderRecord struct {
	ID          int64
	MachineID   int64
	AssigneeID  *int64
	Title       string
	Description string
	Status      string
	EventTime   time.Time
	CreatedAt   time.Time
	ClosedAt    *time.Time
}

// WorkOrderFilters narrows work order listings. Zero values mean "any".
type WorkOrderFilters struct {
	MachineID int64
	Status    string
}

// WorkOrderRepository persists work orders.
type WorkOrderRepository interface {
	Create(ctx context.Context, wo *WorkOrderRecord) (int64, error)
	GetByID(ctx context.Context, id int64) (*WorkOrderRecord, error)
	List(ctx context.Context, filters WorkOrderFilters) ([]*WorkOrderRecord, error)
	SetStatus(ctx context.Context, id int64, status string, closedAt *time.Time) error
}
