package primary

import (
	"context"
	"time"
)

// Work order statuses.
const (
	WorkOrderOpen   = "open"
	WorkOrderClosed = "closed"
)

// WorkOrderService manages follow-on work orders spawned by completions.
type WorkOrderService interface {
	// Get retrieves a work order by ID.
	Get(ctx context.Context, workOrderID int64) (*WorkOrder, error)

	// List lists work orders with optional filters.
	List(ctx context.Context, filters WorkOrderFilters) ([]*WorkOrder, error)

	// Close closes an open work order. The move is checked against the
	// lifecycle table.
	Close(ctx context.Context, workOrderID, actorID int64) error
}

// WorkOrderFilters contains filter options for listing work orders.
type WorkOrderFilters struct {
	MachineID int64  // 0 = any
	Status    string // "" = any
}

// WorkOrder is a follow-on maintenance work record.
type WorkOrder struct {
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
