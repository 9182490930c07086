// Package sqlite contains SQLite implementations of the repository and
// collaborator interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/cmms/internal/errs"
	"github.com/example/cmms/internal/ports/secondary"
)

// TaskRepository implements secondary.TaskRepository with SQLite.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new SQLite task repository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskSelectCols = "id, machine_id, location, name, description, task_type, frequency_days, priority, status, due_date, next_due_date, last_executed_date, estimated_duration_minutes, assignee_id, created_by, is_active, created_at, updated_at"

// scanTask scans a pm_tasks row into a TaskRecord.
func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*secondary.TaskRecord, error) {
	var (
		machineID    sql.NullInt64
		location     sql.NullString
		desc         sql.NullString
		frequency    sql.NullInt64
		dueDate      sql.NullTime
		nextDue      sql.NullTime
		lastExecuted sql.NullTime
		estimated    sql.NullInt64
		assigneeID   sql.NullInt64
	)

	record := &secondary.TaskRecord{}
	err := scanner.Scan(
		&record.ID, &machineID, &location, &record.Name, &desc, &record.Type,
		&frequency, &record.Priority, &record.Status, &dueDate, &nextDue,
		&lastExecuted, &estimated, &assigneeID, &record.CreatedBy,
		&record.IsActive, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if machineID.Valid {
		record.MachineID = &machineID.Int64
	}
	record.Location = location.String
	record.Description = desc.String
	record.FrequencyDays = int(frequency.Int64)
	if dueDate.Valid {
		record.DueDate = &dueDate.Time
	}
	if nextDue.Valid {
		record.NextDueDate = nextDue.Time
	}
	if lastExecuted.Valid {
		record.LastExecutedDate = &lastExecuted.Time
	}
	record.EstimatedDurationMinutes = int(estimated.Int64)
	if assigneeID.Valid {
		record.AssigneeID = &assigneeID.Int64
	}

	return record, nil
}

func nullInt(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func nullIntVal(v int) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(v), Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Create persists a new task and returns its generated ID.
func (r *TaskRepository) Create(ctx context.Context, task *secondary.TaskRecord) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO pm_tasks (machine_id, location, name, description, task_type, frequency_days,
			priority, status, due_date, next_due_date, estimated_duration_minutes, assignee_id,
			created_by, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		nullInt(task.MachineID), nullString(task.Location), task.Name,
		nullString(task.Description), task.Type, nullIntVal(task.FrequencyDays),
		task.Priority, task.Status, nullTime(task.DueDate), task.NextDueDate,
		nullIntVal(task.EstimatedDurationMinutes), nullInt(task.AssigneeID),
		task.CreatedBy, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read task id: %w", err)
	}
	return id, nil
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*secondary.TaskRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+taskSelectCols+" FROM pm_tasks WHERE id = ?", id)

	record, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("task", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return record, nil
}

// List retrieves tasks matching the given filters, ordered by next due
// date ascending.
func (r *TaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	query := "SELECT " + taskSelectCols + " FROM pm_tasks WHERE 1=1"
	args := []any{}

	if !filters.IncludeInactive {
		query += " AND is_active = 1"
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.MachineID != 0 {
		query += " AND machine_id = ?"
		args = append(args, filters.MachineID)
	}
	if filters.DueOnOrBefore != nil {
		query += " AND next_due_date <= ?"
		args = append(args, *filters.DueOnOrBefore)
	}
	if filters.AssigneeScope != 0 {
		query += " AND (assignee_id IS NULL OR assignee_id = ?)"
		args = append(args, filters.AssigneeScope)
	}
	if filters.VisibleTo != 0 {
		query += " AND (assignee_id IS NULL OR assignee_id = ? OR created_by = ?)"
		args = append(args, filters.VisibleTo, filters.VisibleTo)
	}

	query += " ORDER BY next_due_date ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*secondary.TaskRecord
	for rows.Next() {
		record, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, record)
	}
	return tasks, rows.Err()
}

// Update saves the task's mutable fields.
func (r *TaskRepository) Update(ctx context.Context, task *secondary.TaskRecord) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pm_tasks SET name = ?, description = ?, task_type = ?, frequency_days = ?,
			priority = ?, status = ?, due_date = ?, next_due_date = ?, last_executed_date = ?,
			estimated_duration_minutes = ?, assignee_id = ?, updated_at = ?
		WHERE id = ?`,
		task.Name, nullString(task.Description), task.Type,
		nullIntVal(task.FrequencyDays), task.Priority, task.Status,
		nullTime(task.DueDate), task.NextDueDate, nullTime(task.LastExecutedDate),
		nullIntVal(task.EstimatedDurationMinutes), nullInt(task.AssigneeID),
		task.UpdatedAt, task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("task", task.ID)
	}
	return nil
}

// UpdateStatusPriority changes only status and priority.
func (r *TaskRepository) UpdateStatusPriority(ctx context.Context, id int64, status, priority string, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE pm_tasks SET status = ?, priority = ?, updated_at = ? WHERE id = ?",
		status, priority, updatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("task", id)
	}
	return nil
}

// Deactivate soft-deletes a task.
func (r *TaskRepository) Deactivate(ctx context.Context, id int64, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE pm_tasks SET is_active = 0, updated_at = ? WHERE id = ?",
		updatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("task", id)
	}
	return nil
}

// Ensure TaskRepository implements the interface
var _ secondary.TaskRepository = (*TaskRepository)(nil)
