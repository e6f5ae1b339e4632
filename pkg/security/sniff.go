package security

import "bytes"

// Format is a recognized document format. The sniffer classifies raw bytes
// into this small whitelist and ignores whatever type the client declared.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOC  Format = "doc"
	FormatDOCX Format = "docx"
	FormatText Format = "txt"
	// FormatUnsupported is the explicit rejection sentinel. Callers must
	// reject the whole request before requesting signing credentials.
	FormatUnsupported Format = ""
)

// SniffSampleSize is the number of leading bytes the sniffer looks at.
const SniffSampleSize = 32

// printableThreshold is the minimum ratio of printable bytes for a buffer
// without a magic signature to classify as plain text.
const printableThreshold = 0.95

// Magic byte signatures, checked against the first 4 bytes.
var (
	pdfMagic = []byte("%PDF")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0} // legacy OLE compound document
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04} // local file header, zip-based docs
)

// declaredFormats is the explicit allow-list used only for JSON-only metadata
// requests that carry no file bytes. There is no silent "accept anything"
// fallback.
var declaredFormats = map[string]Format{
	"application/pdf":    FormatPDF,
	"application/msword": FormatDOC,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDOCX,
	"text/plain": FormatText,
}

// SniffFormat classifies up to the first SniffSampleSize bytes of a file.
// When no bytes are available and a declared type is present it falls back to
// the declared-MIME allow-list; everything else returns FormatUnsupported.
func SniffFormat(head []byte, declaredType string) Format {
	if len(head) == 0 {
		if f, ok := declaredFormats[declaredType]; ok {
			return f
		}
		return FormatUnsupported
	}
	if len(head) > SniffSampleSize {
		head = head[:SniffSampleSize]
	}
	switch {
	case bytes.HasPrefix(head, pdfMagic):
		return FormatPDF
	case bytes.HasPrefix(head, oleMagic):
		return FormatDOC
	case bytes.HasPrefix(head, zipMagic):
		return FormatDOCX
	}
	if printableRatio(head) >= printableThreshold {
		return FormatText
	}
	return FormatUnsupported
}

// printableRatio returns the share of sampled bytes that are printable ASCII
// or common whitespace control codes.
func printableRatio(sample []byte) float64 {
	if len(sample) == 0 {
		return 0
	}
	printable := 0
	for _, b := range sample {
		if (b >= 0x20 && b < 0x7F) || b == '\t' || b == '\n' || b == '\r' {
			printable++
		}
	}
	return float64(printable) / float64(len(sample))
}

// Supported reports whether the format is one of the recognized kinds.
func (f Format) Supported() bool {
	return f != FormatUnsupported
}

// ContentType returns the canonical MIME type signed into the upload URL.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOC:
		return "application/msword"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatText:
		return "text/plain"
	}
	return "application/octet-stream"
}

// Ext returns the storage-key extension for the format.
func (f Format) Ext() string {
	switch f {
	case FormatPDF:
		return ".pdf"
	case FormatDOC:
		return ".doc"
	case FormatDOCX:
		return ".docx"
	case FormatText:
		return ".txt"
	}
	return ""
}
