package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/cmms/internal/errs"
	"github.com/example/cmms/internal/ports/secondary"
)

// WorkOrderRepository implements secondary.WorkOrderRepository and
// secondary.WorkOrderCreator with SQLite.
type WorkOrderRepository struct {
	db *sql.DB
}

// NewWorkOrderRepository creates a new SQLite work order repository.
func NewWorkOrderRepository(db *sql.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

const workOrderSelectCols = "id, machine_id, assignee_id, title, description, status, event_time, created_at, closed_at"

func scanWorkOrder(scanner interface {
	Scan(dest ...any) error
}) (*secondary.WorkOrderRecord, error) {
	var (
		assigneeID sql.NullInt64
		desc       sql.NullString
		closedAt   sql.NullTime
	)

	record := &secondary.WorkOrderRecord{}
	err := scanner.Scan(
		&record.ID, &record.MachineID, &assigneeID, &record.Title, &desc,
		&record.Status, &record.EventTime, &record.CreatedAt, &closedAt,
	)
	if err != nil {
		return nil, err
	}

	if assigneeID.Valid {
		record.AssigneeID = &assigneeID.Int64
	}
	record.Description = desc.String
	if closedAt.Valid {
		record.ClosedAt = &closedAt.Time
	}
	return record, nil
}

// Create persists a new work order and returns its generated ID.
func (r *WorkOrderRepository) Create(ctx context.Context, wo *secondary.WorkOrderRecord) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO work_orders (machine_id, assignee_id, title, description, status, event_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		wo.MachineID, nullInt(wo.AssigneeID), wo.Title,
		nullString(wo.Description), wo.Status, wo.EventTime, wo.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create work order: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read work order id: %w", err)
	}
	return id, nil
}

// CreateFollowOn creates the work order spawned by a completion.
func (r *WorkOrderRepository) CreateFollowOn(ctx context.Context, req secondary.FollowOnRequest) (int64, error) {
	return r.Create(ctx, &secondary.WorkOrderRecord{
		MachineID:   req.MachineID,
		AssigneeID:  req.AssigneeID,
		Title:       req.Title,
		Description: req.Description,
		Status:      "open",
		EventTime:   req.EventTime,
		CreatedAt:   req.EventTime,
	})
}

// GetByID retrieves a work order by its ID.
func (r *WorkOrderRepository) GetByID(ctx context.Context, id int64) (*secondary.WorkOrderRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+workOrderSelectCols+" FROM work_orders WHERE id = ?", id)

	record, err := scanWorkOrder(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("work order", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}
	return record, nil
}

// List retrieves work orders matching the filters, newest first.
func (r *WorkOrderRepository) List(ctx context.Context, filters secondary.WorkOrderFilters) ([]*secondary.WorkOrderRecord, error) {
	query := "SELECT " + workOrderSelectCols + " FROM work_orders WHERE 1=1"
	args := []any{}

	if filters.MachineID != 0 {
		query += " AND machine_id = ?"
		args = append(args, filters.MachineID)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	defer rows.Close()

	var orders []*secondary.WorkOrderRecord
	for rows.Next() {
		record, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work order: %w", err)
		}
		orders = append(orders, record)
	}
	return orders, rows.Err()
}

// SetStatus updates a work order's status and close time.
func (r *WorkOrderRepository) SetStatus(ctx context.Context, id int64, status string, closedAt *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE work_orders SET status = ?, closed_at = ? WHERE id = ?",
		status, nullTime(closedAt), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update work order status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("work order", id)
	}
	return nil
}

// Ensure WorkOrderRepository implements the interfaces
var (
	_ secondary.WorkOrderRepository = (*WorkOrderRepository)(nil)
	_ secondary.WorkOrderCreator    = (*WorkOrderRepository)(nil)
)
