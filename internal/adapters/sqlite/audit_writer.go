package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/cmms/internal/ports/secondary"
)

// AuditWriter implements secondary.AuditWriter against the audit_log table.
type AuditWriter struct {
	db  *sql.DB
	now func() time.Time
}

// NewAuditWriter creates a new SQLite audit writer.
func NewAuditWriter(db *sql.DB) *AuditWriter {
	return &AuditWriter{db: db, now: time.Now}
}

// Record writes one audit entry. Metadata is stored as a JSON object.
func (w *AuditWriter) Record(ctx context.Context, entry secondary.AuditEntry) error {
	var metadata sql.NullString
	if len(entry.Metadata) > 0 {
		data, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal audit metadata: %w", err)
		}
		metadata = sql.NullString{String: string(data), Valid: true}
	}

	_, err := w.db.ExecContext(ctx,
		`INSERT INTO audit_log (category, action, entity_type, entity_id, actor_id, description, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Category, entry.Action, entry.EntityType, entry.EntityID,
		nullIntVal64(entry.ActorID), nullString(entry.Description), metadata, w.now(),
	)
	if err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

func nullIntVal64(v int64) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

// Ensure AuditWriter implements the interface
var _ secondary.AuditWriter = (*AuditWriter)(nil)
