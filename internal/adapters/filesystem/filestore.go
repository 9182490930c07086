// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/example/cmms/internal/ports/secondary"
)

// FileStore implements secondary.FileStore. Attachments are copied under
// {base}/pm_task_{taskID}/history_{executionID}/ with uuid-derived names,
// so concurrent uploads of identically named files never collide.
type FileStore struct {
	baseDir string
}

// NewFileStore creates a file store rooted at baseDir. If baseDir is
// empty, ~/.cmms/files is used.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".cmms", "files")
	}
	return &FileStore{baseDir: baseDir}, nil
}

// TaskDir returns the directory for a task's files, creating it on demand.
func (s *FileStore) TaskDir(taskID int64) (string, error) {
	dir := filepath.Join(s.baseDir, fmt.Sprintf("pm_task_%d", taskID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create task directory: %w", err)
	}
	return dir, nil
}

// ExecutionDir returns the directory for one execution's files, creating
// it (and the task directory) on demand.
func (s *FileStore) ExecutionDir(taskID, executionID int64) (string, error) {
	taskDir, err := s.TaskDir(taskID)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(taskDir, fmt.Sprintf("history_%d", executionID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create execution directory: %w", err)
	}
	return dir, nil
}

// Save copies the source file into the execution's directory under a
// fresh uuid-based name. A missing source reports a wrapped
// os.ErrNotExist so callers can skip it as non-fatal.
func (s *FileStore) Save(ctx context.Context, taskID, executionID int64, sourcePath string) (*secondary.StoredFile, error) {
	src, err := os.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source %s: %w", sourcePath, err)
	}
	defer src.Close()

	dir, err := s.ExecutionDir(taskID, executionID)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(sourcePath)
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	destPath := filepath.Join(dir, name)

	dest, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer dest.Close()

	size, err := io.Copy(dest, src)
	if err != nil {
		return nil, fmt.Errorf("failed to copy %s: %w", sourcePath, err)
	}

	return &secondary.StoredFile{
		Path:         destPath,
		OriginalName: filepath.Base(sourcePath),
		FileType:     Classify(ext),
		Size:         size,
	}, nil
}

var (
	imageExtensions    = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true}
	documentExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true, ".txt": true}
)

// Classify maps a file extension to image, document or other.
func Classify(ext string) string {
	ext = strings.ToLower(ext)
	switch {
	case imageExtensions[ext]:
		return "image"
	case documentExtensions[ext]:
		return "document"
	default:
		return "other"
	}
}

// Ensure FileStore implements the interface
var _ secondary.FileStore = (*FileStore)(nil)
