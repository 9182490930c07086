package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/cmms/internal/ports/secondary"
)

// AttachmentRepository implements secondary.AttachmentRepository with SQLite.
type AttachmentRepository struct {
	db *sql.DB
}

// NewAttachmentRepository creates a new SQLite attachment repository.
func NewAttachmentRepository(db *sql.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// Create persists attachment metadata and returns the generated ID.
func (r *AttachmentRepository) Create(ctx context.Context, att *secondary.AttachmentRecord) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO pm_attachments (execution_id, file_path, original_filename, file_type, file_size, uploaded_by)
		VALUES (?, ?, ?, ?, ?, ?)`,
		att.ExecutionRecordID, att.FilePath, att.OriginalFilename,
		att.FileType, att.FileSize, nullInt(att.UploadedBy),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create attachment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read attachment id: %w", err)
	}
	return id, nil
}

// ListByExecution retrieves all attachments for an execution record.
func (r *AttachmentRepository) ListByExecution(ctx context.Context, executionID int64) ([]*secondary.AttachmentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, execution_id, file_path, original_filename, file_type, file_size, uploaded_by
		FROM pm_attachments WHERE execution_id = ? ORDER BY id ASC`,
		executionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	var attachments []*secondary.AttachmentRecord
	for rows.Next() {
		var uploadedBy sql.NullInt64
		record := &secondary.AttachmentRecord{}
		err := rows.Scan(
			&record.ID, &record.ExecutionRecordID, &record.FilePath,
			&record.OriginalFilename, &record.FileType, &record.FileSize,
			&uploadedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		if uploadedBy.Valid {
			record.UploadedBy = &uploadedBy.Int64
		}
		attachments = append(attachments, record)
	}
	return attachments, rows.Err()
}

// Ensure AttachmentRepository implements the interface
var _ secondary.AttachmentRepository = (*AttachmentRepository)(nil)
