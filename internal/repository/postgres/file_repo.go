package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-hiring-ingest/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type fileRepo struct {
	db *pgxpool.Pool
}

func NewFileObjectRepository(db *pgxpool.Pool) domain.FileObjectRepository {
	return &fileRepo{db: db}
}

func (r *fileRepo) Create(ctx context.Context, f *domain.FileObject) error {
	metaJSON, err := json.Marshal(f.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	query := `INSERT INTO file_objects (id, org_id, key, bucket, provider, size, checksum, content_type, uploaded_by, metadata, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.db.Exec(ctx, query,
		f.ID, f.OrgID, f.Key, f.Bucket, f.Provider, f.Size, f.Checksum,
		f.ContentType, f.UploadedBy, metaJSON, f.CreatedAt,
	)
	return err
}

func (r *fileRepo) GetByKey(ctx context.Context, orgID, key string) (*domain.FileObject, error) {
	query := `SELECT id, org_id, key, bucket, provider, size, checksum, content_type, uploaded_by, metadata, created_at
              FROM file_objects WHERE org_id = $1 AND key = $2 ORDER BY created_at DESC LIMIT 1`
	var (
		f        domain.FileObject
		metaJSON []byte
	)
	err := r.db.QueryRow(ctx, query, orgID, key).Scan(
		&f.ID, &f.OrgID, &f.Key, &f.Bucket, &f.Provider, &f.Size, &f.Checksum,
		&f.ContentType, &f.UploadedBy, &metaJSON, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &f.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return &f, nil
}
