package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/example/cmms/internal/ports/primary"
	"github.com/example/cmms/internal/ports/secondary"
)

// AttachmentServiceImpl implements the AttachmentService interface.
type AttachmentServiceImpl struct {
	executions  secondary.ExecutionRepository
	attachments secondary.AttachmentRepository
	files       secondary.FileStore
	log         zerolog.Logger
}

// NewAttachmentService creates a new AttachmentService with injected
// dependencies.
func NewAttachmentService(
	executions secondary.ExecutionRepository,
	attachments secondary.AttachmentRepository,
	files secondary.FileStore,
	log zerolog.Logger,
) *AttachmentServiceImpl {
	return &AttachmentServiceImpl{
		executions:  executions,
		attachments: attachments,
		files:       files,
		log:         log,
	}
}

// Attach copies each source file into the execution record's directory
// and persists its metadata. Missing or unreadable sources are skipped
// with a warning; the remaining files still attach.
func (s *AttachmentServiceImpl) Attach(ctx context.Context, req primary.AttachRequest) ([]*primary.Attachment, error) {
	exec, err := s.executions.GetByID(ctx, req.ExecutionRecordID)
	if err != nil {
		return nil, err
	}

	var attached []*primary.Attachment
	for _, path := range req.FilePaths {
		stored, err := s.files.Save(ctx, exec.TaskID, exec.ID, path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				s.log.Warn().Str("path", path).Int64("execution_id", exec.ID).
					Msg("attachment source missing, skipped")
			} else {
				s.log.Warn().Err(err).Str("path", path).Int64("execution_id", exec.ID).
					Msg("attachment store failed, skipped")
			}
			continue
		}

		record := &secondary.AttachmentRecord{
			ExecutionRecordID: exec.ID,
			FilePath:          stored.Path,
			OriginalFilename:  stored.OriginalName,
			FileType:          stored.FileType,
			FileSize:          stored.Size,
			UploadedBy:        req.UploadedBy,
		}
		id, err := s.attachments.Create(ctx, record)
		if err != nil {
			return attached, fmt.Errorf("failed to save attachment metadata: %w", err)
		}

		attached = append(attached, &primary.Attachment{
			ID:                id,
			ExecutionRecordID: exec.ID,
			FilePath:          stored.Path,
			OriginalFilename:  stored.OriginalName,
			FileType:          stored.FileType,
			FileSize:          stored.Size,
			UploadedBy:        req.UploadedBy,
		})
	}

	s.log.Info().Int64("execution_id", exec.ID).Int("attached", len(attached)).
		Int("requested", len(req.FilePaths)).Msg("attachments stored")
	return attached, nil
}

// Ensure AttachmentServiceImpl implements the interface
var _ primary.AttachmentService = (*AttachmentServiceImpl)(nil)
