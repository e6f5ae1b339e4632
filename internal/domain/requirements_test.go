package domain_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"go-hiring-ingest/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeParsed(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Should overwrite scalars only with non-empty values", func(t *testing.T) {
		base := domain.JobRequirements{
			Summary:   "old summary",
			Seniority: "mid",
			Category:  "engineering",
		}
		merged := base.MergeParsed(domain.ParsedFields{
			Summary:   "new summary",
			Seniority: "",
		}, "raw text", "gpt-4o-mini", now)

		assert.Equal(t, "new summary", merged.Summary)
		assert.Equal(t, "mid", merged.Seniority)
		assert.Equal(t, "engineering", merged.Category)
	})

	t.Run("Should stamp provenance", func(t *testing.T) {
		merged := domain.JobRequirements{}.MergeParsed(domain.ParsedFields{}, "raw text", "gpt-4o-mini", now)
		assert.Equal(t, "gpt-4o-mini", merged.ParsedWith)
		require.NotNil(t, merged.ParsedAt)
		assert.Equal(t, now, *merged.ParsedAt)
		assert.Equal(t, "raw text", merged.RawTextSample)
	})

	t.Run("Should truncate the raw text sample", func(t *testing.T) {
		long := strings.Repeat("x", domain.RawTextSampleLimit+500)
		merged := domain.JobRequirements{}.MergeParsed(domain.ParsedFields{}, long, "m", now)
		assert.Len(t, merged.RawTextSample, domain.RawTextSampleLimit)
	})

	t.Run("Should truncate multi-byte samples on rune boundaries", func(t *testing.T) {
		long := strings.Repeat("é", domain.RawTextSampleLimit+10)
		merged := domain.JobRequirements{}.MergeParsed(domain.ParsedFields{}, long, "m", now)
		assert.True(t, utf8.ValidString(merged.RawTextSample))
		assert.Equal(t, domain.RawTextSampleLimit, utf8.RuneCountInString(merged.RawTextSample))
	})

	t.Run("Should be idempotent for identical inputs", func(t *testing.T) {
		p := domain.ParsedFields{
			Summary: "s",
			Skills:  []string{"Go", "SQL"},
		}
		once := domain.JobRequirements{}.MergeParsed(p, "raw", "m", now)
		twice := once.MergeParsed(p, "raw", "m", now)
		assert.Equal(t, once, twice)
	})

	t.Run("Should not mutate the receiver", func(t *testing.T) {
		base := domain.JobRequirements{Skills: []string{"Go"}}
		_ = base.MergeParsed(domain.ParsedFields{Skills: []string{"Rust"}}, "raw", "m", now)
		assert.Equal(t, []string{"Go"}, base.Skills)
	})
}

func TestAttachFiles(t *testing.T) {
	t.Run("Should union without duplicates and sort", func(t *testing.T) {
		base := domain.JobRequirements{
			ResumeFileIDs: []string{"f2", "f1"},
			ResumeIDs:     []string{"r1"},
		}
		out := base.AttachFiles([]string{"f3", "f1"}, []string{"r2"})
		assert.Equal(t, []string{"f1", "f2", "f3"}, out.ResumeFileIDs)
		assert.Equal(t, []string{"r1", "r2"}, out.ResumeIDs)
	})

	t.Run("Should be idempotent", func(t *testing.T) {
		once := domain.JobRequirements{}.AttachFiles([]string{"f1"}, []string{"r1"})
		twice := once.AttachFiles([]string{"f1"}, []string{"r1"})
		assert.Equal(t, once, twice)
	})

	t.Run("Should drop empty ids", func(t *testing.T) {
		out := domain.JobRequirements{}.AttachFiles([]string{"", "f1"}, nil)
		assert.Equal(t, []string{"f1"}, out.ResumeFileIDs)
		assert.Nil(t, out.ResumeIDs)
	})
}

func TestRequirementsJSONRoundTrip(t *testing.T) {
	t.Run("Should keep unknown keys through a round trip", func(t *testing.T) {
		in := []byte(`{"summary":"s","skills":["Go"],"customScore":42,"vendorMeta":{"a":1}}`)
		var req domain.JobRequirements
		require.NoError(t, json.Unmarshal(in, &req))

		assert.Equal(t, "s", req.Summary)
		assert.Equal(t, []string{"Go"}, req.Skills)

		out, err := json.Marshal(req)
		require.NoError(t, err)

		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(out, &m))
		assert.JSONEq(t, `42`, string(m["customScore"]))
		assert.JSONEq(t, `{"a":1}`, string(m["vendorMeta"]))
	})

	t.Run("Should omit empty known fields", func(t *testing.T) {
		out, err := json.Marshal(domain.JobRequirements{Summary: "only this"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"summary":"only this"}`, string(out))
	})

	t.Run("Should survive merge and attach through serialization", func(t *testing.T) {
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		req := domain.JobRequirements{}.
			MergeParsed(domain.ParsedFields{Summary: "s", EmploymentType: "full-time"}, "raw", "m", now).
			AttachFiles([]string{"f1"}, []string{"r1"})

		out, err := json.Marshal(req)
		require.NoError(t, err)

		var back domain.JobRequirements
		require.NoError(t, json.Unmarshal(out, &back))
		assert.Equal(t, req, back)
	})
}
