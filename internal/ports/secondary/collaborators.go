package secondary

import (
	"context"
	"time"
)

// Notification event kinds.
const (
	EventTaskAssigned  = "task_assigned"
	EventTaskCompleted = "task_completed"
)

// Notifier dispatches user-facing notifications. Fire-and-forget: callers
// log failures and move on.
type Notifier interface {
	Notify(ctx context.Context, eventKind string, taskID int64, targetUserID *int64) error
}

// DocumentGenerator produces documents for tasks and executions, returning
// the generated file's path. Failures are non-fatal to callers.
type DocumentGenerator interface {
	GenerateWorkRequest(ctx context.Context, taskID int64, requestedBy string) (string, error)
	GenerateWorksheet(ctx context.Context, executionID int64, requestedBy string) (string, error)
}

// FollowOnRequest describes the work order spawned by completing a
// machine-bound task.
type FollowOnRequest struct {
	MachineID   int64
	AssigneeID  *int64
	Title       string
	Description string
	EventTime   time.Time
}

// WorkOrderCreator creates follow-on work orders. Invoked only for
// machine-bound tasks.
type WorkOrderCreator interface {
	CreateFollowOn(ctx context.Context, req FollowOnRequest) (int64, error)
}

// AuditEntry is one audit-log line.
type AuditEntry struct {
	Category    string
	Action      string
	EntityType  string
	EntityID    int64
	ActorID     int64
	Description string
	Metadata    map[string]any
}

// AuditWriter records audit entries. Fire-and-forget.
type AuditWriter interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// StoredFile describes a file placed into an execution record's directory.
type StoredFile struct {
	Path         string
	OriginalName string
	FileType     string
	Size         int64
}

// FileStore copies uploaded files into per-execution-record directories.
// Save reports os.ErrNotExist (wrapped) when the source is missing.
type FileStore interface {
	Save(ctx context.Context, taskID, executionID int64, sourcePath string) (*StoredFile, error)
}
