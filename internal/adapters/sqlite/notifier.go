package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/cmms/internal/ports/secondary"
)

// Notifier implements secondary.Notifier as a notification outbox table.
// The presentation layer drains it; this engine only ever inserts.
type Notifier struct {
	db  *sql.DB
	now func() time.Time
}

// NewNotifier creates a new outbox-backed notifier.
func NewNotifier(db *sql.DB) *Notifier {
	return &Notifier{db: db, now: time.Now}
}

// Notify inserts one notification row.
func (n *Notifier) Notify(ctx context.Context, eventKind string, taskID int64, targetUserID *int64) error {
	_, err := n.db.ExecContext(ctx,
		"INSERT INTO notifications (event_kind, task_id, target_user_id, created_at) VALUES (?, ?, ?, ?)",
		eventKind, taskID, nullInt(targetUserID), n.now(),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}

// Ensure Notifier implements the interface
var _ secondary.Notifier = (*Notifier)(nil)
