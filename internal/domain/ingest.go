package domain

import "context"

// IngestSource says where the document bytes came from.
type IngestSource string

const (
	// IngestSourcePaste carries raw text in the request body.
	IngestSourcePaste IngestSource = "paste"
	// IngestSourceUpload references an object previously PUT through a
	// presigned URL.
	IngestSourceUpload IngestSource = "upload"
	// IngestSourceInline carries the file bytes in a multipart request; the
	// server stores the object itself before processing.
	IngestSourceInline IngestSource = "inline"
)

// IngestInput triggers job-description processing for one document.
type IngestInput struct {
	OrgID        string
	ActorID      string
	JobID        string // optional; a job is created lazily when absent
	Source       IngestSource
	Text         string // paste source
	Key          string // upload source
	FileName     string
	DeclaredType string
	Data         []byte // inline source
}

// IngestResult reports the entities touched by one ingestion.
type IngestResult struct {
	JobID  string       `json:"job_id"`
	Title  string       `json:"title"`
	FileID string       `json:"file_id,omitempty"`
	Fields ParsedFields `json:"fields"`
}

type IngestUsecase interface {
	Ingest(ctx context.Context, in IngestInput) (*IngestResult, error)
}

// TokenUsage is the token accounting returned by the language model service.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// ExtractedFields is the structured-extraction output plus usage telemetry.
type ExtractedFields struct {
	Fields ParsedFields
	Usage  TokenUsage
}

// FieldExtractor turns extracted document text into structured requisition
// fields via a hosted language model.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text, filenameHint string) (*ExtractedFields, error)
	ModelID() string
}
