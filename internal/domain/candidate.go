package domain

import "time"

// Candidate is a minimal person record created alongside a resume upload when
// one does not already exist for that file. The name is derived from the
// uploaded filename; richer profile data comes from downstream processing.
type Candidate struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	FullName  string    `json:"full_name"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// CandidateSourceUpload tags candidates created by the upload gateway.
const CandidateSourceUpload = "resume_upload"
