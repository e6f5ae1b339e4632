package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-hiring-ingest/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	reqJSON, err := json.Marshal(job.Requirements)
	if err != nil {
		return fmt.Errorf("marshal requirements: %w", err)
	}
	query := `INSERT INTO jobs (id, org_id, title, description, preview_text, preview_html, seniority, tags, employment_type, requirements, requirements_version, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = r.db.Exec(ctx, query,
		job.ID, job.OrgID, job.Title, job.Description, job.PreviewText, job.PreviewHTML,
		job.Seniority, pq.Array(job.Tags), job.EmploymentType,
		reqJSON, job.RequirementsVersion, job.CreatedAt, job.UpdatedAt,
	)
	return err
}

func (r *jobRepo) GetByID(ctx context.Context, orgID, id string) (*domain.Job, error) {
	query := `SELECT id, org_id, title, description, preview_text, preview_html, seniority, tags, employment_type, requirements, requirements_version, created_at, updated_at
              FROM jobs WHERE id = $1 AND org_id = $2`
	var (
		job     domain.Job
		tags    []string
		reqJSON []byte
	)
	err := r.db.QueryRow(ctx, query, id, orgID).Scan(
		&job.ID, &job.OrgID, &job.Title, &job.Description, &job.PreviewText, &job.PreviewHTML,
		&job.Seniority, pq.Array(&tags), &job.EmploymentType,
		&reqJSON, &job.RequirementsVersion, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	job.Tags = tags
	if len(reqJSON) > 0 {
		if err := json.Unmarshal(reqJSON, &job.Requirements); err != nil {
			return nil, fmt.Errorf("unmarshal requirements: %w", err)
		}
	}
	return &job, nil
}

// UpdateRequirements writes the merged bag and optional parsed columns in a
// single conditional statement. The requirements_version guard makes the
// read-modify-write safe against concurrent ingestion for the same job.
func (r *jobRepo) UpdateRequirements(ctx context.Context, orgID, jobID string, expectedVersion int64, req domain.JobRequirements, patch *domain.JobPatch) error {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal requirements: %w", err)
	}
	if patch == nil {
		patch = &domain.JobPatch{}
	}
	result, err := r.db.Exec(ctx, updateJobRequirementsSQL,
		jobID, orgID, expectedVersion, reqJSON,
		patch.Title, patch.Description, patch.PreviewText, patch.PreviewHTML,
		patch.Seniority, patch.EmploymentType, pq.Array(patch.Tags),
		time.Now(),
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		// Either the job is gone or another writer bumped the version;
		// callers distinguish by re-reading.
		return domain.ErrVersionConflict
	}
	return nil
}

// Empty patch fields leave the stored column untouched; list-valued tags are
// replaced only when a non-empty list is supplied.
const updateJobRequirementsSQL = `UPDATE jobs SET
	requirements = $4,
	requirements_version = requirements_version + 1,
	title = COALESCE(NULLIF($5, ''), title),
	description = COALESCE(NULLIF($6, ''), description),
	preview_text = COALESCE(NULLIF($7, ''), preview_text),
	preview_html = COALESCE(NULLIF($8, ''), preview_html),
	seniority = COALESCE(NULLIF($9, ''), seniority),
	employment_type = COALESCE(NULLIF($10, ''), employment_type),
	tags = CASE WHEN cardinality($11::text[]) > 0 THEN $11::text[] ELSE tags END,
	updated_at = $12
WHERE id = $1 AND org_id = $2 AND requirements_version = $3`
