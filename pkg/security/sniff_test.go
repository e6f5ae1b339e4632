package security_test

import (
	"bytes"
	"testing"

	"go-hiring-ingest/pkg/security"

	"github.com/stretchr/testify/assert"
)

func TestSniffFormat(t *testing.T) {
	t.Run("Should detect PDF by magic bytes regardless of declared type", func(t *testing.T) {
		head := []byte("%PDF-1.7 rest of header")
		assert.Equal(t, security.FormatPDF, security.SniffFormat(head, "text/plain"))
	})

	t.Run("Should detect legacy Word by OLE signature", func(t *testing.T) {
		head := []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
		assert.Equal(t, security.FormatDOC, security.SniffFormat(head, ""))
	})

	t.Run("Should detect docx by zip signature", func(t *testing.T) {
		head := []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00}
		assert.Equal(t, security.FormatDOCX, security.SniffFormat(head, "application/pdf"))
	})

	t.Run("Should classify mostly printable bytes as text", func(t *testing.T) {
		head := []byte("Senior Backend Engineer\nRemote\t(EU)\r\n")
		assert.Equal(t, security.FormatText, security.SniffFormat(head, ""))
	})

	t.Run("Should reject binary junk", func(t *testing.T) {
		head := bytes.Repeat([]byte{0x00, 0xFF, 0x13}, 10)
		format := security.SniffFormat(head, "application/pdf")
		assert.Equal(t, security.FormatUnsupported, format)
		assert.False(t, format.Supported())
	})

	t.Run("Should fall back to declared type only when no bytes are present", func(t *testing.T) {
		assert.Equal(t, security.FormatPDF, security.SniffFormat(nil, "application/pdf"))
		assert.Equal(t, security.FormatDOCX, security.SniffFormat(nil, "application/vnd.openxmlformats-officedocument.wordprocessingml.document"))
		assert.Equal(t, security.FormatText, security.SniffFormat(nil, "text/plain"))
	})

	t.Run("Should reject unknown declared types without bytes", func(t *testing.T) {
		assert.Equal(t, security.FormatUnsupported, security.SniffFormat(nil, "application/x-msdownload"))
		assert.Equal(t, security.FormatUnsupported, security.SniffFormat(nil, ""))
	})

	t.Run("Should only inspect the sample prefix", func(t *testing.T) {
		head := append([]byte("plain text preamble that is fully printable"), bytes.Repeat([]byte{0x00}, 100)...)
		assert.Equal(t, security.FormatText, security.SniffFormat(head, ""))
	})
}

func TestFormatMappings(t *testing.T) {
	t.Run("Should map formats to canonical content types", func(t *testing.T) {
		assert.Equal(t, "application/pdf", security.FormatPDF.ContentType())
		assert.Equal(t, "text/plain", security.FormatText.ContentType())
	})

	t.Run("Should map formats to key extensions", func(t *testing.T) {
		assert.Equal(t, ".pdf", security.FormatPDF.Ext())
		assert.Equal(t, ".docx", security.FormatDOCX.Ext())
		assert.Equal(t, "", security.FormatUnsupported.Ext())
	})
}
