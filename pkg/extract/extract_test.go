package extract_test

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"go-hiring-ingest/pkg/extract"
	"go-hiring-ingest/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docxFixture(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestTextFromPlainText(t *testing.T) {
	t.Run("Should pass text through with NUL stripping and trimming", func(t *testing.T) {
		data := []byte("  Senior Backend Engineer\x00 with Go and Postgres experience  ")
		text, err := extract.Text(data, security.FormatText)
		require.NoError(t, err)
		assert.Equal(t, "Senior Backend Engineer with Go and Postgres experience", text)
	})

	t.Run("Should reject text below the minimum length", func(t *testing.T) {
		short := strings.Repeat("a", extract.MinTextLength-1)
		_, err := extract.Text([]byte(short), security.FormatText)
		assert.ErrorIs(t, err, extract.ErrTooShort)
	})

	t.Run("Should count length after stripping", func(t *testing.T) {
		padded := strings.Repeat("a", extract.MinTextLength-1) + "\x00\x00   "
		_, err := extract.Text([]byte(padded), security.FormatText)
		assert.ErrorIs(t, err, extract.ErrTooShort)
	})

	t.Run("Should count characters, not bytes", func(t *testing.T) {
		// 29 characters encoded as 58 bytes
		short := strings.Repeat("é", extract.MinTextLength-1)
		_, err := extract.Text([]byte(short), security.FormatText)
		assert.ErrorIs(t, err, extract.ErrTooShort)

		enough := strings.Repeat("é", extract.MinTextLength)
		text, err := extract.Text([]byte(enough), security.FormatText)
		require.NoError(t, err)
		assert.Equal(t, enough, text)
	})
}

func TestTextFromDocx(t *testing.T) {
	t.Run("Should join text runs with single spaces and decode entities", func(t *testing.T) {
		doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Senior Backend Engineer</w:t></w:r></w:p>
    <w:p><w:r><w:t>Design &amp; build APIs for the hiring platform</w:t></w:r></w:p>
  </w:body>
</w:document>`
		text, err := extract.Text(docxFixture(t, doc), security.FormatDOCX)
		require.NoError(t, err)
		assert.Equal(t, "Senior Backend Engineer Design & build APIs for the hiring platform", text)
	})

	t.Run("Should reject a zip without the document part", func(t *testing.T) {
		var buf bytes.Buffer
		w := zip.NewWriter(&buf)
		f, err := w.Create("word/styles.xml")
		require.NoError(t, err)
		_, _ = f.Write([]byte("<styles/>"))
		require.NoError(t, w.Close())

		_, err = extract.Text(buf.Bytes(), security.FormatDOCX)
		assert.ErrorIs(t, err, extract.ErrMalformed)
	})

	t.Run("Should reject bytes that are not a zip archive", func(t *testing.T) {
		_, err := extract.Text([]byte("PK\x03\x04 but not really a zip"), security.FormatDOCX)
		assert.ErrorIs(t, err, extract.ErrMalformed)
	})
}

func TestTextFromOtherFormats(t *testing.T) {
	t.Run("Should report legacy doc as malformed", func(t *testing.T) {
		_, err := extract.Text([]byte{0xD0, 0xCF, 0x11, 0xE0}, security.FormatDOC)
		assert.ErrorIs(t, err, extract.ErrMalformed)
	})

	t.Run("Should report a broken pdf as malformed", func(t *testing.T) {
		_, err := extract.Text([]byte("%PDF-1.7 truncated"), security.FormatPDF)
		assert.ErrorIs(t, err, extract.ErrMalformed)
	})

	t.Run("Should reject unknown formats", func(t *testing.T) {
		_, err := extract.Text([]byte("whatever"), security.FormatUnsupported)
		assert.Error(t, err)
	})
}
