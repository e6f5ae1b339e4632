package usecase

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"go-hiring-ingest/internal/domain"
	"go-hiring-ingest/pkg/apperror"
	"go-hiring-ingest/pkg/security"
	"go-hiring-ingest/pkg/storage"

	"github.com/google/uuid"
)

// casRetries bounds the version-conflict retry loop for requirements writes.
const casRetries = 3

type uploadUsecase struct {
	jobRepo     domain.JobRepository
	attachments domain.AttachmentStore
	store       domain.ObjectStore
	presigner   *storage.Presigner
	log         *slog.Logger
}

func NewUploadUsecase(jobRepo domain.JobRepository, attachments domain.AttachmentStore, store domain.ObjectStore, presigner *storage.Presigner, log *slog.Logger) domain.UploadUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &uploadUsecase{
		jobRepo:     jobRepo,
		attachments: attachments,
		store:       store,
		presigner:   presigner,
		log:         log,
	}
}

// SignUpload validates the declared upload and returns a time-boxed presigned
// PUT URL. All validation happens before any signing credential is issued; a
// rejected request never reaches the presigner.
func (u *uploadUsecase) SignUpload(ctx context.Context, in domain.SignUploadInput) (*domain.SignedUpload, error) {
	if in.FileName == "" {
		return nil, apperror.BadRequest("file name is required")
	}
	if in.Size <= 0 {
		return nil, apperror.BadRequest("file size is required")
	}
	if maxSize := uploadSizeCap(in.Purpose); maxSize == 0 {
		return nil, apperror.BadRequest("unknown upload purpose")
	} else if in.Size > maxSize {
		return nil, apperror.PayloadTooLarge("file exceeds the upload size limit")
	}

	format := security.SniffFormat(in.Head, in.DeclaredType)
	if !format.Supported() {
		return nil, apperror.UnsupportedMedia("file type is not supported; upload a PDF, Word document or plain text file")
	}

	job, err := u.resolveJob(ctx, in.OrgID, in.JobID, in.FileName)
	if err != nil {
		return nil, err
	}

	var key string
	switch in.Purpose {
	case domain.PurposeJobDescription:
		// One key per job: a re-upload overwrites the previous description.
		key = storage.JobDescriptionKey(in.OrgID, job.ID, format.Ext())
	case domain.PurposeResume:
		key = storage.ResumeKey(in.OrgID, job.ID, in.FileName, time.Now())
	}

	put, err := u.presigner.PresignPut(key, format.ContentType())
	if err != nil {
		return nil, apperror.Internal(err)
	}

	u.log.Info("upload.sign.ok",
		"org_id", in.OrgID,
		"job_id", job.ID,
		"purpose", string(in.Purpose),
		"key", key,
		"content_type", put.ContentType,
		"expires_at", put.ExpiresAt,
	)
	return &domain.SignedUpload{
		URL:         put.URL,
		Method:      "PUT",
		Key:         put.Key,
		Bucket:      put.Bucket,
		ContentType: put.ContentType,
		Headers:     put.Headers,
		ExpiresAt:   put.ExpiresAt,
		JobID:       job.ID,
	}, nil
}

// ConfirmUpload verifies the object landed in storage and persists the
// resume attachment group atomically.
func (u *uploadUsecase) ConfirmUpload(ctx context.Context, in domain.ConfirmUploadInput) (*domain.AttachmentResult, error) {
	if in.JobID == "" || in.Key == "" {
		return nil, apperror.BadRequest("job id and object key are required")
	}
	if !storage.KeyInOrg(in.OrgID, in.Key) {
		return nil, apperror.Forbidden("object key does not belong to your organization")
	}

	job, err := u.jobRepo.GetByID(ctx, in.OrgID, in.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal(err)
	}

	// Server-side verification, independent of client claims.
	size, etag, err := u.store.Stat(ctx, in.Key)
	if err != nil {
		return nil, apperror.BadGateway("uploaded object was not found in storage", err)
	}
	if in.Size > 0 && in.Size != size {
		return nil, apperror.BadRequest("reported size does not match the stored object")
	}
	checksum := in.Checksum
	if checksum == "" {
		checksum = strings.Trim(etag, `"`)
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		fileID := uuid.NewString()
		resumeID := uuid.NewString()
		group := domain.AttachmentGroup{
			OrgID:           in.OrgID,
			JobID:           job.ID,
			ExpectedVersion: job.RequirementsVersion,
			File: &domain.FileObject{
				ID:          fileID,
				OrgID:       in.OrgID,
				Key:         in.Key,
				Bucket:      u.store.Bucket(),
				Provider:    u.store.Provider(),
				Size:        size,
				Checksum:    &checksum,
				ContentType: in.ContentType,
				UploadedBy:  in.ActorID,
				Metadata: map[string]string{
					domain.FileMetaOriginalName: in.FileName,
					domain.FileMetaSource:       "client_upload",
					domain.FileMetaScanStatus:   domain.ScanStatusPending,
				},
			},
			CandidateName:   candidateNameFromFilename(in.FileName),
			CandidateSource: domain.CandidateSourceUpload,
			Resume: &domain.Resume{
				ID:     resumeID,
				OrgID:  in.OrgID,
				JobID:  job.ID,
				FileID: fileID,
				Status: domain.ResumeStatusUploaded,
			},
			Requirements: job.Requirements.AttachFiles([]string{fileID}, []string{resumeID}),
		}

		result, err := u.attachments.CreateResumeAttachment(ctx, group)
		if err == nil {
			u.log.Info("upload.confirm.ok",
				"org_id", in.OrgID,
				"job_id", job.ID,
				"file_id", result.FileID,
				"resume_id", result.ResumeID,
				"candidate_created", result.CandidateCreated,
			)
			return result, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, apperror.Internal(err)
		}
		// Another writer bumped the requirements version; re-read and retry.
		job, err = u.jobRepo.GetByID(ctx, in.OrgID, in.JobID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
	}
	return nil, apperror.Conflict("job was updated concurrently; retry the confirmation")
}

// resolveJob loads the named job or creates one lazily with a title derived
// from the uploaded filename.
func (u *uploadUsecase) resolveJob(ctx context.Context, orgID, jobID, fileName string) (*domain.Job, error) {
	if jobID != "" {
		job, err := u.jobRepo.GetByID(ctx, orgID, jobID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.NotFound("Job not found")
			}
			return nil, apperror.Internal(err)
		}
		return job, nil
	}

	now := time.Now()
	job := &domain.Job{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		Title:     titleFromFilename(fileName),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, apperror.Internal(err)
	}
	u.log.Info("upload.job.created", "org_id", orgID, "job_id", job.ID, "title", job.Title)
	return job, nil
}

// titleFromFilename turns "senior-backend-engineer.pdf" into
// "senior backend engineer".
func titleFromFilename(fileName string) string {
	base := filepath.Base(fileName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return "Untitled role"
	}
	return base
}

// candidateNameFromFilename derives a minimal person name for the candidate
// record created alongside a resume.
func candidateNameFromFilename(fileName string) string {
	name := titleFromFilename(fileName)
	if name == "Untitled role" {
		return "Unknown Candidate"
	}
	return name
}

func uploadSizeCap(p domain.UploadPurpose) int64 {
	switch p {
	case domain.PurposeResume:
		return domain.MaxResumeUploadBytes
	case domain.PurposeJobDescription:
		return domain.MaxJobDescriptionUploadBytes
	}
	return 0
}
