package storage

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

const (
	jobDescriptionPrefix = "uploads/job-descriptions/"
	resumePrefix         = "uploads/job-candidates/"
)

// SanitizeFilename restricts a client-supplied filename to [a-zA-Z0-9._-] so
// it can never introduce path traversal or encoding ambiguity into an object
// key.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	// Drop any path the client sent along
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = unsafeKeyChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "file"
	}
	return name
}

// JobDescriptionKey returns the deterministic key for a job-description
// upload. One key per job: re-uploading a description for the same job
// overwrites the previous object, so the latest upload wins.
func JobDescriptionKey(orgID, jobID, ext string) string {
	return fmt.Sprintf("%s%s/%s%s", jobDescriptionPrefix, orgID, jobID, ext)
}

// ResumeKey returns a unique, timestamped key for a resume upload so every
// historical upload is preserved.
func ResumeKey(orgID, jobID, fileName string, at time.Time) string {
	return fmt.Sprintf("%s%s/%s/%d-%s", resumePrefix, orgID, jobID, at.UnixMilli(), SanitizeFilename(fileName))
}

// KeyInOrg reports whether an object key lies under one of the organization's
// upload prefixes. Client-supplied keys must pass this check before any
// storage call; every key this package plans embeds the owning org.
func KeyInOrg(orgID, key string) bool {
	if orgID == "" {
		return false
	}
	return strings.HasPrefix(key, jobDescriptionPrefix+orgID+"/") ||
		strings.HasPrefix(key, resumePrefix+orgID+"/")
}
