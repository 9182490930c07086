package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/cmms/internal/errs"
	"github.com/example/cmms/internal/ports/secondary"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }

// Ensure mockTaskRepository implements the interface
var _ secondary.TaskRepository = (*mockTaskRepository)(nil)

// mockTaskRepository implements secondary.TaskRepository for testing.
type mockTaskRepository struct {
	tasks       map[int64]*secondary.TaskRecord
	nextID      int64
	lastFilters secondary.TaskFilters
	createErr   error
	updateErr   error
	listErr     error

	statusUpdates  []statusUpdate
	statusErrFor   map[int64]error
	deactivatedIDs []int64
}

type statusUpdate struct {
	id       int64
	status   string
	priority string
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{
		tasks:        make(map[int64]*secondary.TaskRecord),
		nextID:       1,
		statusErrFor: make(map[int64]error),
	}
}

func (m *mockTaskRepository) put(task *secondary.TaskRecord) *secondary.TaskRecord {
	if task.ID == 0 {
		task.ID = m.nextID
		m.nextID++
	} else if task.ID >= m.nextID {
		m.nextID = task.ID + 1
	}
	m.tasks[task.ID] = task
	return task
}

func (m *mockTaskRepository) Create(ctx context.Context, task *secondary.TaskRecord) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	return m.put(task).ID, nil
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id int64) (*secondary.TaskRecord, error) {
	task, ok := m.tasks[id]
	if !ok {
		return nil, errs.NotFound("task", id)
	}
	copied := *task
	return &copied, nil
}

func (m *mockTaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.lastFilters = filters
	var out []*secondary.TaskRecord
	for id := int64(1); id < m.nextID; id++ {
		task, ok := m.tasks[id]
		if !ok {
			continue
		}
		if !task.IsActive && !filters.IncludeInactive {
			continue
		}
		if filters.Status != "" && task.Status != filters.Status {
			continue
		}
		if filters.MachineID != 0 && (task.MachineID == nil || *task.MachineID != filters.MachineID) {
			continue
		}
		if filters.DueOnOrBefore != nil && task.NextDueDate.After(*filters.DueOnOrBefore) {
			continue
		}
		copied := *task
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockTaskRepository) Update(ctx context.Context, task *secondary.TaskRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.tasks[task.ID]; !ok {
		return errs.NotFound("task", task.ID)
	}
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *mockTaskRepository) UpdateStatusPriority(ctx context.Context, id int64, status, priority string, updatedAt time.Time) error {
	if err := m.statusErrFor[id]; err != nil {
		return err
	}
	task, ok := m.tasks[id]
	if !ok {
		return errs.NotFound("task", id)
	}
	task.Status = status
	task.Priority = priority
	task.UpdatedAt = updatedAt
	m.statusUpdates = append(m.statusUpdates, statusUpdate{id: id, status: status, priority: priority})
	return nil
}

func (m *mockTaskRepository) Deactivate(ctx context.Context, id int64, updatedAt time.Time) error {
	task, ok := m.tasks[id]
	if !ok {
		return errs.NotFound("task", id)
	}
	task.IsActive = false
	task.UpdatedAt = updatedAt
	m.deactivatedIDs = append(m.deactivatedIDs, id)
	return nil
}

// Ensure mockExecutionRepository implements the interface
var _ secondary.ExecutionRepository = (*mockExecutionRepository)(nil)

// mockExecutionRepository implements secondary.ExecutionRepository for
// testing. RecordExecution applies the task update against the linked
// task repository to mirror the transactional adapter.
type mockExecutionRepository struct {
	tasks       *mockTaskRepository
	records     map[int64]*secondary.ExecutionRecord
	nextID      int64
	lastUpdate  *secondary.TaskDueUpdate
	recordErr   error
	linkErr     error
	linkedPairs map[int64]int64
}

func newMockExecutionRepository(tasks *mockTaskRepository) *mockExecutionRepository {
	return &mockExecutionRepository{
		tasks:       tasks,
		records:     make(map[int64]*secondary.ExecutionRecord),
		nextID:      1,
		linkedPairs: make(map[int64]int64),
	}
}

func (m *mockExecutionRepository) RecordExecution(ctx context.Context, rec *secondary.ExecutionRecord, update *secondary.TaskDueUpdate) (int64, error) {
	if m.recordErr != nil {
		return 0, m.recordErr
	}
	rec.ID = m.nextID
	m.nextID++
	copied := *rec
	m.records[rec.ID] = &copied
	m.lastUpdate = update
	if update != nil && m.tasks != nil {
		task, ok := m.tasks.tasks[update.TaskID]
		if ok {
			if update.Status != "" {
				task.Status = update.Status
			}
			task.LastExecutedDate = timePtr(update.LastExecutedDate)
			if update.NextDueDate != nil {
				task.NextDueDate = *update.NextDueDate
			}
			if update.Deactivate {
				task.IsActive = false
			}
			task.UpdatedAt = update.UpdatedAt
		}
	}
	return rec.ID, nil
}

func (m *mockExecutionRepository) GetByID(ctx context.Context, id int64) (*secondary.ExecutionRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, errs.NotFound("execution record", id)
	}
	copied := *rec
	return &copied, nil
}

func (m *mockExecutionRepository) List(ctx context.Context, filters secondary.HistoryFilters) ([]*secondary.ExecutionRecord, error) {
	var out []*secondary.ExecutionRecord
	for id := m.nextID - 1; id >= 1; id-- {
		rec, ok := m.records[id]
		if !ok {
			continue
		}
		if filters.TaskID != 0 && rec.TaskID != filters.TaskID {
			continue
		}
		if filters.CompletionStatus != "" && rec.CompletionStatus != filters.CompletionStatus {
			continue
		}
		copied := *rec
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockExecutionRepository) LinkWorkOrder(ctx context.Context, executionID, workOrderID int64) error {
	if m.linkErr != nil {
		return m.linkErr
	}
	if rec, ok := m.records[executionID]; ok {
		rec.WorkOrderID = &workOrderID
	}
	m.linkedPairs[executionID] = workOrderID
	return nil
}

// Ensure mockWorkOrderCreator implements the interface
var _ secondary.WorkOrderCreator = (*mockWorkOrderCreator)(nil)

// mockWorkOrderCreator implements secondary.WorkOrderCreator for testing.
type mockWorkOrderCreator struct {
	requests  []secondary.FollowOnRequest
	nextID    int64
	createErr error
}

func newMockWorkOrderCreator() *mockWorkOrderCreator {
	return &mockWorkOrderCreator{nextID: 100}
}

func (m *mockWorkOrderCreator) CreateFollowOn(ctx context.Context, req secondary.FollowOnRequest) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.requests = append(m.requests, req)
	id := m.nextID
	m.nextID++
	return id, nil
}

// Ensure mockNotifier implements the interface
var _ secondary.Notifier = (*mockNotifier)(nil)

// mockNotifier implements secondary.Notifier for testing.
type mockNotifier struct {
	events    []notifyCall
	notifyErr error
	panicMsg  string
}

type notifyCall struct {
	eventKind    string
	taskID       int64
	targetUserID *int64
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{}
}

func (m *mockNotifier) Notify(ctx context.Context, eventKind string, taskID int64, targetUserID *int64) error {
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.notifyErr != nil {
		return m.notifyErr
	}
	m.events = append(m.events, notifyCall{eventKind: eventKind, taskID: taskID, targetUserID: targetUserID})
	return nil
}

// Ensure mockDocumentGenerator implements the interface
var _ secondary.DocumentGenerator = (*mockDocumentGenerator)(nil)

// mockDocumentGenerator implements secondary.DocumentGenerator for testing.
type mockDocumentGenerator struct {
	workRequests []int64
	worksheets   []int64
	generateErr  error
}

func newMockDocumentGenerator() *mockDocumentGenerator {
	return &mockDocumentGenerator{}
}

func (m *mockDocumentGenerator) GenerateWorkRequest(ctx context.Context, taskID int64, requestedBy string) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	m.workRequests = append(m.workRequests, taskID)
	return "/tmp/work_request.txt", nil
}

func (m *mockDocumentGenerator) GenerateWorksheet(ctx context.Context, executionID int64, requestedBy string) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	m.worksheets = append(m.worksheets, executionID)
	return "/tmp/worksheet.txt", nil
}

// Ensure mockAuditWriter implements the interface
var _ secondary.AuditWriter = (*mockAuditWriter)(nil)

// mockAuditWriter implements secondary.AuditWriter for testing.
type mockAuditWriter struct {
	entries   []secondary.AuditEntry
	recordErr error
}

func newMockAuditWriter() *mockAuditWriter {
	return &mockAuditWriter{}
}

func (m *mockAuditWriter) Record(ctx context.Context, entry secondary.AuditEntry) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

// Ensure mockWorkOrderRepository implements the interface
var _ secondary.WorkOrderRepository = (*mockWorkOrderRepository)(nil)

// mockWorkOrderRepository implements secondary.WorkOrderRepository for testing.
type mockWorkOrderRepository struct {
	orders    map[int64]*secondary.WorkOrderRecord
	nextID    int64
	setStatus []statusUpdate
}

func newMockWorkOrderRepository() *mockWorkOrderRepository {
	return &mockWorkOrderRepository{orders: make(map[int64]*secondary.WorkOrderRecord), nextID: 1}
}

func (m *mockWorkOrderRepository) put(wo *secondary.WorkOrderRecord) *secondary.WorkOrderRecord {
	if wo.ID == 0 {
		wo.ID = m.nextID
		m.nextID++
	} else if wo.ID >= m.nextID {
		m.nextID = wo.ID + 1
	}
	m.orders[wo.ID] = wo
	return wo
}

func (m *mockWorkOrderRepository) Create(ctx context.Context, wo *secondary.WorkOrderRecord) (int64, error) {
	return m.put(wo).ID, nil
}

func (m *mockWorkOrderRepository) GetByID(ctx context.Context, id int64) (*secondary.WorkOrderRecord, error) {
	wo, ok := m.orders[id]
	if !ok {
		return nil, errs.NotFound("work order", id)
	}
	copied := *wo
	return &copied, nil
}

func (m *mockWorkOrderRepository) List(ctx context.Context, filters secondary.WorkOrderFilters) ([]*secondary.WorkOrderRecord, error) {
	var out []*secondary.WorkOrderRecord
	for id := int64(1); id < m.nextID; id++ {
		wo, ok := m.orders[id]
		if !ok {
			continue
		}
		if filters.MachineID != 0 && wo.MachineID != filters.MachineID {
			continue
		}
		if filters.Status != "" && wo.Status != filters.Status {
			continue
		}
		copied := *wo
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockWorkOrderRepository) SetStatus(ctx context.Context, id int64, status string, closedAt *time.Time) error {
	wo, ok := m.orders[id]
	if !ok {
		return errs.NotFound("work order", id)
	}
	wo.Status = status
	wo.ClosedAt = closedAt
	m.setStatus = append(m.setStatus, statusUpdate{id: id, status: status})
	return nil
}

// Ensure mockAttachmentRepository implements the interface
var _ secondary.AttachmentRepository = (*mockAttachmentRepository)(nil)

// mockAttachmentRepository implements secondary.AttachmentRepository for testing.
type mockAttachmentRepository struct {
	records   map[int64]*secondary.AttachmentRecord
	nextID    int64
	createErr error
}

func newMockAttachmentRepository() *mockAttachmentRepository {
	return &mockAttachmentRepository{records: make(map[int64]*secondary.AttachmentRecord), nextID: 1}
}

func (m *mockAttachmentRepository) Create(ctx context.Context, att *secondary.AttachmentRecord) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	att.ID = m.nextID
	m.nextID++
	copied := *att
	m.records[att.ID] = &copied
	return att.ID, nil
}

func (m *mockAttachmentRepository) ListByExecution(ctx context.Context, executionID int64) ([]*secondary.AttachmentRecord, error) {
	var out []*secondary.AttachmentRecord
	for id := int64(1); id < m.nextID; id++ {
		rec, ok := m.records[id]
		if !ok || rec.ExecutionRecordID != executionID {
			continue
		}
		copied := *rec
		out = append(out, &copied)
	}
	return out, nil
}

// Ensure mockFileStore implements the interface
var _ secondary.FileStore = (*mockFileStore)(nil)

// mockFileStore implements secondary.FileStore for testing. Paths listed
// in missing report a wrapped os.ErrNotExist.
type mockFileStore struct {
	missing map[string]bool
	saveErr error
	saved   []string
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{missing: make(map[string]bool)}
}

func (m *mockFileStore) Save(ctx context.Context, taskID, executionID int64, sourcePath string) (*secondary.StoredFile, error) {
	if m.missing[sourcePath] {
		return nil, &os.PathError{Op: "open", Path: sourcePath, Err: os.ErrNotExist}
	}
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	m.saved = append(m.saved, sourcePath)
	return &secondary.StoredFile{
		Path:         filepath.Join("/tmp/files", filepath.Base(sourcePath)),
		OriginalName: filepath.Base(sourcePath),
		FileType:     "other",
		Size:         42,
	}, nil
}
