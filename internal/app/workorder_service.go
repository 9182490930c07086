package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/cmms/internal/core/lifecycle"
	"github.com/example/cmms/internal/ports/primary"
	"github.com/example/cmms/internal/ports/secondary"
)

// WorkOrderServiceImpl implements the WorkOrderService interface.
type WorkOrderServiceImpl struct {
	workOrders  secondary.WorkOrderRepository
	audit       secondary.AuditWriter
	transitions lifecycle.Table
	log         zerolog.Logger
	now         func() time.Time
}

// NewWorkOrderService creates a new WorkOrderService with injected
// dependencies.
func NewWorkOrderService(
	workOrders secondary.WorkOrderRepository,
	audit secondary.AuditWriter,
	transitions lifecycle.Table,
	log zerolog.Logger,
) *WorkOrderServiceImpl {
	return &WorkOrderServiceImpl{
		workOrders:  workOrders,
		audit:       audit,
		transitions: transitions,
		log:         log,
		now:         time.Now,
	}
}

// Get retrieves a work order by ID.
func (s *WorkOrderServiceImpl) Get(ctx context.Context, workOrderID int64) (*primary.WorkOrder, error) {
	record, err := s.workOrders.GetByID(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	return workOrderToPrimary(record), nil
}

// List lists work orders with optional filters.
func (s *WorkOrderServiceImpl) List(ctx context.Context, filters primary.WorkOrderFilters) ([]*primary.WorkOrder, error) {
	records, err := s.workOrders.List(ctx, secondary.WorkOrderFilters{
		MachineID: filters.MachineID,
		Status:    filters.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}

	out := make([]*primary.WorkOrder, len(records))
	for i, r := range records {
		out[i] = workOrderToPrimary(r)
	}
	return out, nil
}

// Close closes an open work order.
func (s *WorkOrderServiceImpl) Close(ctx context.Context, workOrderID, actorID int64) error {
	record, err := s.workOrders.GetByID(ctx, workOrderID)
	if err != nil {
		return err
	}

	if err := s.transitions.Validate(lifecycle.KindWorkOrder, record.Status, primary.WorkOrderClosed); err != nil {
		return err
	}

	closedAt := s.now()
	if err := s.workOrders.SetStatus(ctx, workOrderID, primary.WorkOrderClosed, &closedAt); err != nil {
		return fmt.Errorf("failed to close work order: %w", err)
	}

	s.log.Info().Int64("work_order_id", workOrderID).Int64("actor_id", actorID).
		Msg("work order closed")

	if err := s.audit.Record(ctx, secondary.AuditEntry{
		Category:    "work_order",
		Action:      "close",
		EntityType:  "work_order",
		EntityID:    workOrderID,
		ActorID:     actorID,
		Description: fmt.Sprintf("work order closed: %s", record.Title),
	}); err != nil {
		s.log.Warn().Err(err).Int64("work_order_id", workOrderID).Msg("audit entry failed")
	}
	return nil
}

func workOrderToPrimary(r *secondary.WorkOrderRecord) *primary.WorkOrder {
	return &primary.WorkOrder{
		ID:          r.ID,
		MachineID:   r.MachineID,
		AssigneeID:  r.AssigneeID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		EventTime:   r.EventTime,
		CreatedAt:   r.CreatedAt,
		ClosedAt:    r.ClosedAt,
	}
}

// Ensure WorkOrderServiceImpl implements the interface
var _ primary.WorkOrderService = (*WorkOrderServiceImpl)(nil)
