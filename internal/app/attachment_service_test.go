package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/cmms/internal/errs"
	"github.com/example/cmms/internal/ports/primary"
	"github.com/example/cmms/internal/ports/secondary"
)

func seedExecution(t *testing.T, executions *mockExecutionRepository, taskID int64) int64 {
	t.Helper()
	id, err := executions.RecordExecution(context.Background(), &secondary.ExecutionRecord{
		TaskID:           taskID,
		ExecutedDate:     time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
		CompletionStatus: primary.CompletionCompleted,
	}, nil)
	if err != nil {
		t.Fatalf("seed execution failed: %v", err)
	}
	return id
}

func TestAttachSkipsMissingFiles(t *testing.T) {
	executions := newMockExecutionRepository(nil)
	attachments := newMockAttachmentRepository()
	files := newMockFileStore()
	svc := NewAttachmentService(executions, attachments, files, testLogger())

	execID := seedExecution(t, executions, 3)
	files.missing["/uploads/gone.jpg"] = true

	attached, err := svc.Attach(context.Background(), primary.AttachRequest{
		ExecutionRecordID: execID,
		FilePaths:         []string{"/uploads/photo.jpg", "/uploads/gone.jpg", "/uploads/report.pdf"},
		UploadedBy:        int64Ptr(4),
	})
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	if len(attached) != 2 {
		t.Fatalf("attached %d files, want 2", len(attached))
	}
	if len(files.saved) != 2 {
		t.Errorf("stored %d files, want 2", len(files.saved))
	}

	stored, err := attachments.ListByExecution(context.Background(), execID)
	if err != nil {
		t.Fatalf("ListByExecution failed: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("persisted %d metadata rows, want 2", len(stored))
	}
	for _, att := range attached {
		if att.ExecutionRecordID != execID {
			t.Errorf("attachment bound to execution %d, want %d", att.ExecutionRecordID, execID)
		}
		if att.UploadedBy == nil || *att.UploadedBy != 4 {
			t.Errorf("uploaded_by = %v, want 4", att.UploadedBy)
		}
	}
}

func TestAttachUnknownExecution(t *testing.T) {
	svc := NewAttachmentService(newMockExecutionRepository(nil), newMockAttachmentRepository(), newMockFileStore(), testLogger())

	_, err := svc.Attach(context.Background(), primary.AttachRequest{
		ExecutionRecordID: 404,
		FilePaths:         []string{"/uploads/photo.jpg"},
	})
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestAttachMetadataFailureReturnsPartial(t *testing.T) {
	executions := newMockExecutionRepository(nil)
	attachments := newMockAttachmentRepository()
	files := newMockFileStore()
	svc := NewAttachmentService(executions, attachments, files, testLogger())

	execID := seedExecution(t, executions, 3)
	attachments.createErr = errors.New("db locked")

	attached, err := svc.Attach(context.Background(), primary.AttachRequest{
		ExecutionRecordID: execID,
		FilePaths:         []string{"/uploads/photo.jpg"},
	})
	if err == nil {
		t.Fatal("expected an error when metadata persistence fails")
	}
	if len(attached) != 0 {
		t.Errorf("attached = %d, want 0", len(attached))
	}
}

func TestAttachStoreFailureSkipsFile(t *testing.T) {
	executions := newMockExecutionRepository(nil)
	files := newMockFileStore()
	files.saveErr = errors.New("permission denied")
	svc := NewAttachmentService(executions, newMockAttachmentRepository(), files, testLogger())

	execID := seedExecution(t, executions, 3)

	attached, err := svc.Attach(context.Background(), primary.AttachRequest{
		ExecutionRecordID: execID,
		FilePaths:         []string{"/uploads/photo.jpg"},
	})
	if err != nil {
		t.Fatalf("store failures are skipped, not fatal: %v", err)
	}
	if len(attached) != 0 {
		t.Errorf("attached = %d, want 0", len(attached))
	}
}
