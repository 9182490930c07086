package app

import (
	"context"
	"fmt"

	"github.com/example/cmms/internal/ports/primary"
	"github.com/example/cmms/internal/ports/secondary"
)

// HistoryServiceImpl implements the HistoryService interface.
type HistoryServiceImpl struct {
	executions secondary.ExecutionRepository
}

// NewHistoryService creates a new HistoryService with injected dependencies.
func NewHistoryService(executions secondary.ExecutionRepository) *HistoryServiceImpl {
	return &HistoryServiceImpl{executions: executions}
}

// ListHistory lists execution records, newest first.
func (s *HistoryServiceImpl) ListHistory(ctx context.Context, filters primary.HistoryFilters) ([]*primary.ExecutionRecord, error) {
	records, err := s.executions.List(ctx, secondary.HistoryFilters{
		UserID:           filters.UserID,
		TaskID:           filters.TaskID,
		CompletionStatus: filters.CompletionStatus,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list execution history: %w", err)
	}

	out := make([]*primary.ExecutionRecord, len(records))
	for i, r := range records {
		out[i] = execToPrimary(r)
	}
	return out, nil
}

// Ensure HistoryServiceImpl implements the interface
var _ primary.HistoryService = (*HistoryServiceImpl)(nil)
