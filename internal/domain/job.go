package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrVersionConflict = errors.New("requirements version conflict")
)

// Job is a hiring requisition. Jobs are created lazily on first upload when
// the caller does not name one, mutated by ingestion and by upload attachment,
// and never deleted by this core.
type Job struct {
	ID                  string          `json:"id"`
	OrgID               string          `json:"org_id"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	PreviewText         *string         `json:"preview_text"`
	PreviewHTML         *string         `json:"preview_html"`
	Seniority           *string         `json:"seniority"`
	Tags                []string        `json:"tags"`
	EmploymentType      *string         `json:"employment_type"`
	Requirements        JobRequirements `json:"requirements"`
	RequirementsVersion int64           `json:"requirements_version"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// JobPatch carries parsed scalar columns applied alongside a requirements
// write. Empty fields leave the existing column untouched.
type JobPatch struct {
	Title          string
	Description    string
	PreviewText    string
	PreviewHTML    string
	Seniority      string
	EmploymentType string
	Tags           []string
}

type JobUsecase interface {
	GetJob(ctx context.Context, orgID, id string) (*Job, error)
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, orgID, id string) (*Job, error)
	// UpdateRequirements writes the merged bag (and optional parsed columns)
	// only when the stored requirements_version still equals expectedVersion.
	// Returns ErrVersionConflict when another writer got there first.
	UpdateRequirements(ctx context.Context, orgID, jobID string, expectedVersion int64, req JobRequirements, patch *JobPatch) error
}
