// Package sqlite_test contains integration tests for SQLite repositories.
//
// setupTestDB is the single point where the schema is loaded: every test
// runs against db.SchemaSQL, so test databases can never drift from the
// schema the application ships.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/cmms/internal/db"
	"github.com/example/cmms/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if _, err := testDB.Exec(db.SchemaSQL); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

func int64Ptr(v int64) *int64 { return &v }

func timePtr(v time.Time) *time.Time { return &v }

var testTime = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

// machineTaskRecord builds a machine-bound recurring task record.
func machineTaskRecord(machineID int64, name string) *secondary.TaskRecord {
	return &secondary.TaskRecord{
		MachineID:     int64Ptr(machineID),
		Name:          name,
		Description:   "integration test task",
		Type:          "recurring",
		FrequencyDays: 30,
		Priority:      "normal",
		Status:        "pending",
		NextDueDate:   testTime.AddDate(0, 0, 30),
		CreatedBy:     1,
		IsActive:      true,
		CreatedAt:     testTime,
		UpdatedAt:     testTime,
	}
}

// seedExecutionRow inserts an execution row directly and returns its ID.
func seedExecutionRow(t *testing.T, testDB *sql.DB, taskID int64) int64 {
	t.Helper()
	res, err := testDB.Exec(
		"INSERT INTO pm_executions (task_id, executed_date, completion_status, duration_minutes) VALUES (?, ?, 'completed', 30)",
		taskID, testTime,
	)
	if err != nil {
		t.Fatalf("failed to seed execution: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read execution id: %v", err)
	}
	return id
}
