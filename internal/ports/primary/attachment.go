package primary

import "context"

// Attachment file type classes, derived from the file extension.
const (
	FileTypeImage    = "image"
	FileTypeDocument = "document"
	FileTypeOther    = "other"
)

// AttachmentService associates uploaded files with a completion event.
type AttachmentService interface {
	// Attach copies each source file into the execution record's directory
	// and persists its metadata. Missing sources are skipped with a
	// warning; partial success is allowed.
	Attach(ctx context.Context, req AttachRequest) ([]*Attachment, error)
}

// AttachRequest contains parameters for attaching files.
type AttachRequest struct {
	ExecutionRecordID int64
	FilePaths         []string
	UploadedBy        *int64
}

// Attachment is the stored metadata of one attached file.
type Attachment struct {
	ID                int64
	ExecutionRecordID int64
	FilePath          string
	OriginalFilename  string
	FileType          string
	FileSize          int64
	UploadedBy        *int64
}
