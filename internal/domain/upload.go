package domain

import (
	"context"
	"time"
)

// UploadPurpose selects the object-key scheme and size cap for an upload.
type UploadPurpose string

const (
	// PurposeJobDescription uploads share one deterministic key per job:
	// re-uploading a description overwrites the previous object (latest wins).
	PurposeJobDescription UploadPurpose = "job_description"
	// PurposeResume uploads always get a fresh timestamped key so every
	// historical upload is preserved.
	PurposeResume UploadPurpose = "resume"
)

// Size caps enforced before any signing credential is issued.
const (
	MaxResumeUploadBytes         = 20 << 20
	MaxJobDescriptionUploadBytes = 10 << 20
)

// SignUploadInput is a request for a presigned storage-write URL.
type SignUploadInput struct {
	OrgID        string
	ActorID      string
	FileName     string
	DeclaredType string
	Size         int64
	Purpose      UploadPurpose
	JobID        string // optional; a job is created lazily when absent
	Head         []byte // optional first bytes of the file for sniffing
}

// SignedUpload is the response to a sign request. The URL is valid only for
// the exact method, key, content type and expiry encoded into it.
type SignedUpload struct {
	URL         string            `json:"url"`
	Method      string            `json:"method"`
	Key         string            `json:"key"`
	Bucket      string            `json:"bucket"`
	ContentType string            `json:"content_type"`
	Headers     map[string]string `json:"headers"`
	ExpiresAt   time.Time         `json:"expires_at"`
	JobID       string            `json:"job_id"`
}

// ConfirmUploadInput reports a completed client PUT of a resume so the
// metadata group can be persisted.
type ConfirmUploadInput struct {
	OrgID       string
	ActorID     string
	JobID       string
	Key         string
	FileName    string
	Size        int64
	Checksum    string
	ContentType string
}

type UploadUsecase interface {
	SignUpload(ctx context.Context, in SignUploadInput) (*SignedUpload, error)
	ConfirmUpload(ctx context.Context, in ConfirmUploadInput) (*AttachmentResult, error)
}

// ObjectStore is the server-side view of object storage. Clients write
// through presigned URLs; the server itself only stats, downloads and (for
// inline multipart ingestion) uploads.
type ObjectStore interface {
	Stat(ctx context.Context, key string) (size int64, etag string, err error)
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key, contentType string, data []byte) error
	Bucket() string
	Provider() string
}

// AttachmentGroup is the atomic create/update unit persisted when a resume
// upload is confirmed: file metadata, candidate (if new), resume link and the
// job's merged requirements bag. All-or-nothing.
type AttachmentGroup struct {
	OrgID           string
	JobID           string
	ExpectedVersion int64
	File            *FileObject
	CandidateName   string
	CandidateSource string
	Resume          *Resume
	Requirements    JobRequirements
}

// AttachmentResult returns the identifiers created by the atomic group.
type AttachmentResult struct {
	JobID            string `json:"job_id"`
	FileID           string `json:"file_id"`
	CandidateID      string `json:"candidate_id"`
	ResumeID         string `json:"resume_id"`
	CandidateCreated bool   `json:"candidate_created"`
}

// AttachmentStore executes the multi-entity group as one transaction against
// the relational store.
type AttachmentStore interface {
	CreateResumeAttachment(ctx context.Context, g AttachmentGroup) (*AttachmentResult, error)
}
