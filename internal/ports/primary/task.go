// Package primary defines the service interfaces and boundary types
// consumed by the presentation layer.
package primary

import (
	"context"
	"time"
)

// Task statuses.
const (
	StatusPending   = "pending"
	StatusDueToday  = "due_today"
	StatusOverdue   = "overdue"
	StatusCompleted = "completed"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Task types.
const (
	TypeRecurring = "recurring"
	TypeOneTime   = "one_time"
)

// TargetKind discriminates what a maintenance task is performed on.
type TargetKind string

const (
	TargetMachine  TargetKind = "machine"
	TargetLocation TargetKind = "location"
)

// Target is the tagged union of a machine reference and a free-text
// location. Use MachineTarget or LocationTarget; the zero value is invalid
// and rejected at creation.
type Target struct {
	Kind      TargetKind
	MachineID int64
	Location  string
}

// MachineTarget builds a target referencing a machine.
func MachineTarget(machineID int64) Target {
	return Target{Kind: TargetMachine, MachineID: machineID}
}

// LocationTarget builds a target naming a free-text location.
func LocationTarget(location string) Target {
	return Target{Kind: TargetLocation, Location: location}
}

// TaskService defines the primary port for maintenance task operations.
type TaskService interface {
	// Create validates the request, computes the next due date and
	// persists a new task. Assignment notification, work-request document
	// and audit entry are best-effort follow-ups.
	Create(ctx context.Context, req CreateTaskRequest) (*MaintenanceTask, error)

	// Get retrieves a task by ID.
	Get(ctx context.Context, taskID int64) (*MaintenanceTask, error)

	// Update applies the non-nil fields of the request. Status changes are
	// checked against the lifecycle table.
	Update(ctx context.Context, req UpdateTaskRequest) (*MaintenanceTask, error)

	// Deactivate soft-deletes a task, removing it from active listings.
	Deactivate(ctx context.Context, taskID, actorID int64) error

	// ListDue lists active tasks ordered by next due date ascending,
	// optionally restricted to already-due tasks and to an assignee's view.
	ListDue(ctx context.Context, req ListDueRequest) ([]*MaintenanceTask, error)

	// ListTasks lists active tasks visible to a user: global tasks, tasks
	// assigned to the user, and tasks the user created.
	ListTasks(ctx context.Context, filters TaskFilters) ([]*MaintenanceTask, error)
}

// CreateTaskRequest contains parameters for creating a task.
type CreateTaskRequest struct {
	Target                   Target
	Name                     string
	Description              string
	Type                     string // recurring or one_time; defaults to recurring
	FrequencyDays            int    // required for recurring tasks without an explicit due date
	Priority                 string // defaults to normal
	DueDate                  *time.Time
	EstimatedDurationMinutes int
	AssigneeID               *int64 // nil = globally assigned
	CreatedBy                int64
}

// UpdateTaskRequest contains parameters for a partial task update.
// Nil fields are left unchanged.
type UpdateTaskRequest struct {
	TaskID                   int64
	ActorID                  int64
	Name                     *string
	Description              *string
	Status                   *string
	Priority                 *string
	FrequencyDays            *int
	DueDate                  *time.Time
	EstimatedDurationMinutes *int
	AssigneeID               *int64
}

// ListDueRequest contains parameters for the due-task listing.
type ListDueRequest struct {
	ReferenceTime *time.Time // nil = now
	AssigneeID    int64      // 0 = all; otherwise global tasks plus tasks assigned to this user
	IncludeFuture bool       // false = only tasks due on or before the reference time
}

// TaskFilters contains filter options for listing tasks.
type TaskFilters struct {
	UserID    int64  // 0 = all; otherwise global, assigned-to or created-by this user
	Status    string // "" = any
	MachineID int64  // 0 = any
}

// MaintenanceTask represents a preventive maintenance task at the port
// boundary. NextDueDate is the authoritative computed due date; DueDate is
// the explicit override supplied at creation, if any.
type MaintenanceTask struct {
	ID                       int64
	Target                   Target
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
