package storage_test

import (
	"testing"
	"time"

	"go-hiring-ingest/pkg/storage"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	t.Run("Should strip paths and unsafe characters", func(t *testing.T) {
		assert.Equal(t, "etc_passwd", storage.SanitizeFilename("../../etc/passwd"))
		assert.Equal(t, "re_sume_2024.pdf", storage.SanitizeFilename(`C:\Users\re sume 2024.pdf`))
	})

	t.Run("Should fall back when nothing survives", func(t *testing.T) {
		assert.Equal(t, "file", storage.SanitizeFilename("///"))
		assert.Equal(t, "file", storage.SanitizeFilename("  "))
	})
}

func TestKeyInOrg(t *testing.T) {
	t.Run("Should accept keys under the org's upload prefixes", func(t *testing.T) {
		assert.True(t, storage.KeyInOrg("org1", "uploads/job-descriptions/org1/job1.pdf"))
		assert.True(t, storage.KeyInOrg("org1", "uploads/job-candidates/org1/job1/1700000000000-cv.pdf"))
	})

	t.Run("Should reject keys belonging to another org", func(t *testing.T) {
		assert.False(t, storage.KeyInOrg("org1", "uploads/job-descriptions/org2/job1.pdf"))
		// Prefix matching must not accept a longer org id
		assert.False(t, storage.KeyInOrg("org1", "uploads/job-descriptions/org12/job1.pdf"))
		assert.False(t, storage.KeyInOrg("org1", "other/org1/file.pdf"))
		assert.False(t, storage.KeyInOrg("", "uploads/job-descriptions//job1.pdf"))
	})
}

func TestKeyPlanning(t *testing.T) {
	t.Run("Should build one deterministic description key per job", func(t *testing.T) {
		key := storage.JobDescriptionKey("org1", "job1", ".pdf")
		assert.Equal(t, "uploads/job-descriptions/org1/job1.pdf", key)
		assert.Equal(t, key, storage.JobDescriptionKey("org1", "job1", ".pdf"))
	})

	t.Run("Should timestamp resume keys so uploads never collide", func(t *testing.T) {
		at := time.UnixMilli(1700000000000)
		key := storage.ResumeKey("org1", "job1", "Jane Doe.pdf", at)
		assert.Equal(t, "uploads/job-candidates/org1/job1/1700000000000-Jane_Doe.pdf", key)

		later := storage.ResumeKey("org1", "job1", "Jane Doe.pdf", at.Add(time.Millisecond))
		assert.NotEqual(t, key, later)
	})
}
