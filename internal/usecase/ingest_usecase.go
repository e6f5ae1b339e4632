package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"go-hiring-ingest/internal/domain"
	"go-hiring-ingest/pkg/apperror"
	"go-hiring-ingest/pkg/extract"
	"go-hiring-ingest/pkg/security"
	"go-hiring-ingest/pkg/storage"

	"github.com/google/uuid"
)

// previewTextLimit bounds the plain-text snippet stored on the job card.
const previewTextLimit = 280

type ingestUsecase struct {
	jobRepo   domain.JobRepository
	fileRepo  domain.FileObjectRepository
	store     domain.ObjectStore
	extractor domain.FieldExtractor
	log       *slog.Logger
}

func NewIngestUsecase(jobRepo domain.JobRepository, fileRepo domain.FileObjectRepository, store domain.ObjectStore, extractor domain.FieldExtractor, log *slog.Logger) domain.IngestUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &ingestUsecase{
		jobRepo:   jobRepo,
		fileRepo:  fileRepo,
		store:     store,
		extractor: extractor,
		log:       log,
	}
}

// Ingest runs the description pipeline for one document: acquire bytes, sniff,
// extract text, call the field extractor, then persist the merged requisition.
// The job is created lazily only after extraction succeeds, so a rejected
// document never leaves an empty shell behind.
func (u *ingestUsecase) Ingest(ctx context.Context, in domain.IngestInput) (*domain.IngestResult, error) {
	// An explicitly named job must exist before any expensive work starts.
	var job *domain.Job
	if in.JobID != "" {
		var err error
		job, err = u.jobRepo.GetByID(ctx, in.OrgID, in.JobID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.NotFound("Job not found")
			}
			return nil, apperror.Internal(err)
		}
	}

	text, data, format, err := u.acquireText(ctx, in)
	if err != nil {
		return nil, err
	}

	extracted, err := u.extractor.ExtractFields(ctx, text, in.FileName)
	if err != nil {
		return nil, apperror.BadGateway("field extraction failed", err)
	}
	fields := extracted.Fields

	if job == nil {
		now := time.Now()
		job = &domain.Job{
			ID:        uuid.NewString(),
			OrgID:     in.OrgID,
			Title:     fields.Title,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := u.jobRepo.Create(ctx, job); err != nil {
			return nil, apperror.Internal(err)
		}
		u.log.Info("ingest.job.created", "org_id", in.OrgID, "job_id", job.ID, "title", job.Title)
	}

	fileID, err := u.recordFile(ctx, in, job, data, format)
	if err != nil {
		return nil, err
	}

	patch := &domain.JobPatch{
		Title:          fields.Title,
		Description:    fields.Description,
		PreviewText:    previewText(text),
		PreviewHTML:    previewHTML(text),
		Seniority:      fields.Seniority,
		EmploymentType: fields.EmploymentType,
		Tags:           fields.Skills,
	}

	model := u.extractor.ModelID()
	for attempt := 0; attempt < casRetries; attempt++ {
		merged := job.Requirements.MergeParsed(fields, text, model, time.Now())
		err := u.jobRepo.UpdateRequirements(ctx, in.OrgID, job.ID, job.RequirementsVersion, merged, patch)
		if err == nil {
			title := job.Title
			if fields.Title != "" {
				title = fields.Title
			}
			u.log.Info("ingest.ok",
				"org_id", in.OrgID,
				"job_id", job.ID,
				"source", string(in.Source),
				"file_id", fileID,
				"text_chars", len(text),
				"model", model,
			)
			return &domain.IngestResult{
				JobID:  job.ID,
				Title:  title,
				FileID: fileID,
				Fields: fields,
			}, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, apperror.Internal(err)
		}
		job, err = u.jobRepo.GetByID(ctx, in.OrgID, job.ID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
	}
	return nil, apperror.Conflict("job was updated concurrently; retry the ingestion")
}

// acquireText turns the source-specific input into normalized document text.
// For file sources it also returns the raw bytes and sniffed format so the
// object can be recorded afterwards.
func (u *ingestUsecase) acquireText(ctx context.Context, in domain.IngestInput) (string, []byte, security.Format, error) {
	switch in.Source {
	case domain.IngestSourcePaste:
		text := strings.TrimSpace(strings.ReplaceAll(in.Text, "\x00", ""))
		if utf8.RuneCountInString(text) < extract.MinTextLength {
			return "", nil, security.FormatUnsupported, apperror.Unprocessable("pasted text is too short to process")
		}
		return text, nil, security.FormatUnsupported, nil

	case domain.IngestSourceUpload:
		if in.Key == "" {
			return "", nil, security.FormatUnsupported, apperror.BadRequest("object key is required for upload ingestion")
		}
		if !storage.KeyInOrg(in.OrgID, in.Key) {
			return "", nil, security.FormatUnsupported, apperror.Forbidden("object key does not belong to your organization")
		}
		data, err := u.store.Download(ctx, in.Key)
		if err != nil {
			return "", nil, security.FormatUnsupported, apperror.BadGateway("uploaded object could not be read from storage", err)
		}
		return u.extractFromBytes(data, in.DeclaredType)

	case domain.IngestSourceInline:
		if len(in.Data) == 0 {
			return "", nil, security.FormatUnsupported, apperror.BadRequest("file content is required for inline ingestion")
		}
		if int64(len(in.Data)) > domain.MaxJobDescriptionUploadBytes {
			return "", nil, security.FormatUnsupported, apperror.PayloadTooLarge("file exceeds the upload size limit")
		}
		return u.extractFromBytes(in.Data, in.DeclaredType)
	}
	return "", nil, security.FormatUnsupported, apperror.BadRequest("unknown ingestion source")
}

func (u *ingestUsecase) extractFromBytes(data []byte, declaredType string) (string, []byte, security.Format, error) {
	format := security.SniffFormat(data, declaredType)
	if !format.Supported() {
		return "", nil, format, apperror.UnsupportedMedia("file type is not supported; upload a PDF, Word document or plain text file")
	}
	text, err := extract.Text(data, format)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrTooShort):
			return "", nil, format, apperror.Unprocessable("document contains too little text to process")
		case errors.Is(err, extract.ErrMalformed):
			return "", nil, format, apperror.Unprocessable(err.Error())
		}
		return "", nil, format, apperror.Internal(err)
	}
	return text, data, format, nil
}

// recordFile persists the blob and its metadata row for file-backed sources.
// Upload ingestion reuses the row confirmed earlier when one exists; inline
// ingestion writes the object server-side under the job's description key.
func (u *ingestUsecase) recordFile(ctx context.Context, in domain.IngestInput, job *domain.Job, data []byte, format security.Format) (string, error) {
	switch in.Source {
	case domain.IngestSourceUpload:
		existing, err := u.fileRepo.GetByKey(ctx, in.OrgID, in.Key)
		if err == nil {
			return existing.ID, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return "", apperror.Internal(err)
		}
		return u.createFileRow(ctx, in, in.Key, format, int64(len(data)), "presigned_upload")

	case domain.IngestSourceInline:
		key := storage.JobDescriptionKey(in.OrgID, job.ID, format.Ext())
		if err := u.store.Upload(ctx, key, format.ContentType(), data); err != nil {
			return "", apperror.BadGateway("storing the document failed", err)
		}
		return u.createFileRow(ctx, in, key, format, int64(len(data)), "inline_upload")
	}
	return "", nil
}

func (u *ingestUsecase) createFileRow(ctx context.Context, in domain.IngestInput, key string, format security.Format, size int64, source string) (string, error) {
	f := &domain.FileObject{
		ID:          uuid.NewString(),
		OrgID:       in.OrgID,
		Key:         key,
		Bucket:      u.store.Bucket(),
		Provider:    u.store.Provider(),
		Size:        size,
		ContentType: format.ContentType(),
		UploadedBy:  in.ActorID,
		Metadata: map[string]string{
			domain.FileMetaOriginalName: in.FileName,
			domain.FileMetaSource:       source,
			domain.FileMetaScanStatus:   domain.ScanStatusPending,
		},
		CreatedAt: time.Now(),
	}
	if err := u.fileRepo.Create(ctx, f); err != nil {
		return "", apperror.Internal(err)
	}
	return f.ID, nil
}

// previewText returns the leading snippet shown on job listings, cut at a rune
// boundary.
func previewText(text string) string {
	runes := []rune(text)
	if len(runes) <= previewTextLimit {
		return text
	}
	return strings.TrimSpace(string(runes[:previewTextLimit])) + "…"
}

// previewHTML renders the snippet as escaped paragraphs.
func previewHTML(text string) string {
	snippet := previewText(text)
	var b strings.Builder
	for _, para := range strings.Split(snippet, "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(para))
	}
	return b.String()
}
