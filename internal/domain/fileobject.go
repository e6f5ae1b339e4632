package domain

import (
	"context"
	"time"
)

// FileObject metadata keys recorded at creation time.
const (
	FileMetaOriginalName = "originalName"
	FileMetaSource       = "source"
	FileMetaScanStatus   = "scanStatus"
)

// ScanStatusPending marks a blob for the downstream virus scanner. This core
// only records the flag; it never scans.
const ScanStatusPending = "pending"

// FileObject is the metadata row for a stored blob. Created exactly once per
// successfully confirmed upload and immutable thereafter.
type FileObject struct {
	ID          string            `json:"id"`
	OrgID       string            `json:"org_id"`
	Key         string            `json:"key"`
	Bucket      string            `json:"bucket"`
	Provider    string            `json:"provider"`
	Size        int64             `json:"size"`
	Checksum    *string           `json:"checksum"`
	ContentType string            `json:"content_type"`
	UploadedBy  string            `json:"uploaded_by"`
	Metadata    map[string]string `json:"metadata"`
	CreatedAt   time.Time         `json:"created_at"`
}

type FileObjectRepository interface {
	Create(ctx context.Context, f *FileObject) error
	GetByKey(ctx context.Context, orgID, key string) (*FileObject, error)
}
