package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Bucket:          "hiring-docs",
		Endpoint:        "https://s3.us-east-1.amazonaws.com",
		Region:          "us-east-1",
		AccessKeyID:     "AKIAEXAMPLE",
		SecretAccessKey: "secret",
	}
}

func fixedPresigner(t *testing.T, cfg Config) *Presigner {
	t.Helper()
	p, err := NewPresigner(cfg)
	require.NoError(t, err)
	p.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestNewPresigner(t *testing.T) {
	t.Run("Should list every missing mandatory field", func(t *testing.T) {
		_, err := NewPresigner(Config{Endpoint: "https://s3.us-east-1.amazonaws.com"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket")
		assert.Contains(t, err.Error(), "region")
		assert.Contains(t, err.Error(), "access key id")
		assert.Contains(t, err.Error(), "secret access key")
	})

	t.Run("Should reject an unparseable endpoint", func(t *testing.T) {
		cfg := testConfig()
		cfg.Endpoint = "not a url"
		_, err := NewPresigner(cfg)
		assert.Error(t, err)
	})
}

func TestPresignPut(t *testing.T) {
	t.Run("Should be deterministic for identical inputs and clock", func(t *testing.T) {
		p := fixedPresigner(t, testConfig())
		a, err := p.PresignPut("uploads/job-descriptions/org1/job1.pdf", "application/pdf")
		require.NoError(t, err)
		b, err := p.PresignPut("uploads/job-descriptions/org1/job1.pdf", "application/pdf")
		require.NoError(t, err)
		assert.Equal(t, a.URL, b.URL)
	})

	t.Run("Should change the signature when any signed input changes", func(t *testing.T) {
		p := fixedPresigner(t, testConfig())
		base, err := p.PresignPut("uploads/a.pdf", "application/pdf")
		require.NoError(t, err)

		otherKey, err := p.PresignPut("uploads/b.pdf", "application/pdf")
		require.NoError(t, err)
		assert.NotEqual(t, signatureOf(base.URL), signatureOf(otherKey.URL))

		otherType, err := p.PresignPut("uploads/a.pdf", "text/plain")
		require.NoError(t, err)
		assert.NotEqual(t, signatureOf(base.URL), signatureOf(otherType.URL))
	})

	t.Run("Should carry the required query parameters", func(t *testing.T) {
		p := fixedPresigner(t, testConfig())
		put, err := p.PresignPut("uploads/job-descriptions/org1/job1.pdf", "application/pdf")
		require.NoError(t, err)

		assert.Contains(t, put.URL, "/hiring-docs/uploads/job-descriptions/org1/job1.pdf?")
		assert.Contains(t, put.URL, "X-Amz-Algorithm=AWS4-HMAC-SHA256")
		assert.Contains(t, put.URL, "X-Amz-Content-Sha256=UNSIGNED-PAYLOAD")
		assert.Contains(t, put.URL, "X-Amz-Credential=AKIAEXAMPLE%2F20240301%2Fus-east-1%2Fs3%2Faws4_request")
		assert.Contains(t, put.URL, "X-Amz-Date=20240301T120000Z")
		assert.Contains(t, put.URL, "X-Amz-Expires=900")
		assert.Contains(t, put.URL, "X-Amz-SignedHeaders=content-type%3Bhost")
		assert.Contains(t, put.URL, "X-Amz-Signature=")
		assert.Equal(t, map[string]string{"Content-Type": "application/pdf"}, put.Headers)
		assert.Equal(t, time.Date(2024, 3, 1, 12, 15, 0, 0, time.UTC), put.ExpiresAt)
	})

	t.Run("Should sign the session token on AWS but never on Wasabi", func(t *testing.T) {
		aws := testConfig()
		aws.SessionToken = "token123"
		p := fixedPresigner(t, aws)
		put, err := p.PresignPut("uploads/a.pdf", "application/pdf")
		require.NoError(t, err)
		assert.Contains(t, put.URL, "X-Amz-Security-Token=token123")

		wasabi := testConfig()
		wasabi.Endpoint = "https://s3.us-east-1.wasabisys.com"
		wasabi.SessionToken = "token123"
		pw := fixedPresigner(t, wasabi)
		assert.Equal(t, ProviderWasabi, pw.Provider())
		wput, err := pw.PresignPut("uploads/a.pdf", "application/pdf")
		require.NoError(t, err)
		assert.NotContains(t, wput.URL, "X-Amz-Security-Token")
	})

	t.Run("Should reject an empty key", func(t *testing.T) {
		p := fixedPresigner(t, testConfig())
		_, err := p.PresignPut("", "application/pdf")
		assert.Error(t, err)
	})
}

func TestURIEscape(t *testing.T) {
	t.Run("Should pass unreserved characters and encode the rest uppercase", func(t *testing.T) {
		assert.Equal(t, "abc-_.~019", uriEscape("abc-_.~019"))
		assert.Equal(t, "a%20b", uriEscape("a b"))
		assert.Equal(t, "a%2Fb", uriEscape("a/b"))
		assert.Equal(t, "%E2%82%AC", uriEscape("€"))
	})

	t.Run("Should keep key separators while escaping segments", func(t *testing.T) {
		assert.Equal(t, "uploads/org%201/file%20name.pdf", escapeKeySegments("uploads/org 1/file name.pdf"))
	})
}

func signatureOf(rawURL string) string {
	i := strings.LastIndex(rawURL, "X-Amz-Signature=")
	if i < 0 {
		return ""
	}
	return rawURL[i:]
}
