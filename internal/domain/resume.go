package domain

import "time"

// Resume processing statuses. This core only writes UPLOADED; the rest are
// advanced by downstream processing.
const (
	ResumeStatusUploaded = "UPLOADED"
	ResumeStatusParsing  = "PARSING"
	ResumeStatusParsed   = "PARSED"
	ResumeStatusFailed   = "FAILED"
)

// Resume links a Candidate, a Job and a FileObject. It is created together
// with its FileObject and Candidate in one atomic group.
type Resume struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	JobID       string    `json:"job_id"`
	CandidateID string    `json:"candidate_id"`
	FileID      string    `json:"file_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
