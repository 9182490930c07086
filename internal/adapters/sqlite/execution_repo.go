package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/cmms/internal/errs"
	"github.com/example/cmms/internal/ports/secondary"
)

// ExecutionRepository implements secondary.ExecutionRepository with SQLite.
type ExecutionRepository struct {
	db *sql.DB
}

// NewExecutionRepository creates a new SQLite execution repository.
func NewExecutionRepository(db *sql.DB) *ExecutionRepository {
	return &ExecutionRepository{db: db}
}

const executionSelectCols = "id, task_id, executed_date, assignee_id, completed_by, completion_status, notes, duration_minutes, work_order_id"

// scanExecution scans a pm_executions row into an ExecutionRecord.
func scanExecution(scanner interface {
	Scan(dest ...any) error
}) (*secondary.ExecutionRecord, error) {
	var (
		assigneeID  sql.NullInt64
		completedBy sql.NullInt64
		notes       sql.NullString
		workOrderID sql.NullInt64
	)

	record := &secondary.ExecutionRecord{}
	err := scanner.Scan(
		&record.ID, &record.TaskID, &record.ExecutedDate, &assigneeID,
		&completedBy, &record.CompletionStatus, &notes,
		&record.DurationMinutes, &workOrderID,
	)
	if err != nil {
		return nil, err
	}

	if assigneeID.Valid {
		record.AssigneeID = &assigneeID.Int64
	}
	if completedBy.Valid {
		record.CompletedBy = &completedBy.Int64
	}
	record.Notes = notes.String
	if workOrderID.Valid {
		record.WorkOrderID = &workOrderID.Int64
	}
	return record, nil
}

// RecordExecution inserts the execution record and applies the task-side
// mutation in one transaction, so partial completion is never observable.
func (r *ExecutionRepository) RecordExecution(ctx context.Context, rec *secondary.ExecutionRecord, update *secondary.TaskDueUpdate) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO pm_executions (task_id, executed_date, assignee_id, completed_by,
			completion_status, notes, duration_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.TaskID, rec.ExecutedDate, nullInt(rec.AssigneeID),
		nullInt(rec.CompletedBy), rec.CompletionStatus, nullString(rec.Notes),
		rec.DurationMinutes,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert execution: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read execution id: %w", err)
	}

	if update != nil {
		query := "UPDATE pm_tasks SET last_executed_date = ?, updated_at = ?"
		args := []any{update.LastExecutedDate, update.UpdatedAt}

		if update.Status != "" {
			query += ", status = ?"
			args = append(args, update.Status)
		}
		if update.NextDueDate != nil {
			query += ", next_due_date = ?"
			args = append(args, *update.NextDueDate)
		}
		if update.Deactivate {
			query += ", is_active = 0"
		}
		query += " WHERE id = ?"
		args = append(args, update.TaskID)

		upd, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to update task for execution: %w", err)
		}
		if n, _ := upd.RowsAffected(); n == 0 {
			return 0, errs.NotFound("task", update.TaskID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit execution: %w", err)
	}
	return id, nil
}

// GetByID retrieves an execution record by its ID.
func (r *ExecutionRepository) GetByID(ctx context.Context, id int64) (*secondary.ExecutionRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+executionSelectCols+" FROM pm_executions WHERE id = ?", id)

	record, err := scanExecution(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("execution record", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get execution: %w", err)
	}
	return record, nil
}

// List retrieves execution records matching the filters, most recent first.
func (r *ExecutionRepository) List(ctx context.Context, filters secondary.HistoryFilters) ([]*secondary.ExecutionRecord, error) {
	query := "SELECT " + executionSelectCols + " FROM pm_executions WHERE 1=1"
	args := []any{}

	if filters.TaskID != 0 {
		query += " AND task_id = ?"
		args = append(args, filters.TaskID)
	}
	if filters.CompletionStatus != "" {
		query += " AND completion_status = ?"
		args = append(args, filters.CompletionStatus)
	}
	if filters.UserID != 0 {
		query += " AND (assignee_id = ? OR completed_by = ?)"
		args = append(args, filters.UserID, filters.UserID)
	}

	query += " ORDER BY executed_date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	defer rows.Close()

	var records []*secondary.ExecutionRecord
	for rows.Next() {
		record, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// LinkWorkOrder sets the follow-on work order reference.
func (r *ExecutionRepository) LinkWorkOrder(ctx context.Context, executionID, workOrderID int64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE pm_executions SET work_order_id = ? WHERE id = ?",
		workOrderID, executionID,
	)
	if err != nil {
		return fmt.Errorf("failed to link work order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("execution record", executionID)
	}
	return nil
}

// Ensure ExecutionRepository implements the interface
var _ secondary.ExecutionRepository = (*ExecutionRepository)(nil)
