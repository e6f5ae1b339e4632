package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-hiring-ingest/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type attachmentStore struct {
	db *pgxpool.Pool
}

// NewAttachmentStore returns the coordinator that persists a confirmed resume
// upload: file object, candidate (if new), resume link and the job's merged
// requirements, all inside one transaction.
func NewAttachmentStore(db *pgxpool.Pool) domain.AttachmentStore {
	return &attachmentStore{db: db}
}

// CreateResumeAttachment executes the multi-entity group all-or-nothing. On
// any failure mid-group the transaction rolls back and no partial rows
// remain. The job update carries the same version guard as the job
// repository, so a concurrent requirements writer aborts the whole group.
func (s *attachmentStore) CreateResumeAttachment(ctx context.Context, g domain.AttachmentGroup) (*domain.AttachmentResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin attachment transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()

	metaJSON, err := json.Marshal(g.File.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal file metadata: %w", err)
	}
	_, err = tx.Exec(ctx, `INSERT INTO file_objects (id, org_id, key, bucket, provider, size, checksum, content_type, uploaded_by, metadata, created_at)
	                       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		g.File.ID, g.File.OrgID, g.File.Key, g.File.Bucket, g.File.Provider, g.File.Size,
		g.File.Checksum, g.File.ContentType, g.File.UploadedBy, metaJSON, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create file object: %w", err)
	}

	candidateID, created, err := s.candidateIfAbsent(ctx, tx, g.OrgID, g.CandidateName, g.CandidateSource, now)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `INSERT INTO resumes (id, org_id, job_id, candidate_id, file_id, status, created_at)
	                       VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		g.Resume.ID, g.OrgID, g.JobID, candidateID, g.File.ID, domain.ResumeStatusUploaded, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create resume: %w", err)
	}

	reqJSON, err := json.Marshal(g.Requirements)
	if err != nil {
		return nil, fmt.Errorf("marshal requirements: %w", err)
	}
	result, err := tx.Exec(ctx, `UPDATE jobs SET requirements = $4, requirements_version = requirements_version + 1, updated_at = $5
	                             WHERE id = $1 AND org_id = $2 AND requirements_version = $3`,
		g.JobID, g.OrgID, g.ExpectedVersion, reqJSON, now,
	)
	if err != nil {
		return nil, fmt.Errorf("update job requirements: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, domain.ErrVersionConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit attachment transaction: %w", err)
	}

	return &domain.AttachmentResult{
		JobID:            g.JobID,
		FileID:           g.File.ID,
		CandidateID:      candidateID,
		ResumeID:         g.Resume.ID,
		CandidateCreated: created,
	}, nil
}

// candidateIfAbsent finds an existing candidate for the derived name or
// creates a minimal record inside the transaction.
func (s *attachmentStore) candidateIfAbsent(ctx context.Context, tx pgx.Tx, orgID, name, source string, now time.Time) (string, bool, error) {
	var id string
	err := tx.QueryRow(ctx, `SELECT id FROM candidates WHERE org_id = $1 AND full_name = $2 ORDER BY created_at LIMIT 1`,
		orgID, name,
	).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", false, fmt.Errorf("lookup candidate: %w", err)
	}

	id = uuid.NewString()
	_, err = tx.Exec(ctx, `INSERT INTO candidates (id, org_id, full_name, source, created_at)
	                       VALUES ($1, $2, $3, $4, $5)`,
		id, orgID, name, source, now,
	)
	if err != nil {
		return "", false, fmt.Errorf("create candidate: %w", err)
	}
	return id, true, nil
}
