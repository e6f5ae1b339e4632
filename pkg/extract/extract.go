package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go-hiring-ingest/pkg/security"

	"github.com/ledongthuc/pdf"
)

// MinTextLength is the minimum number of characters (after NUL stripping and
// trimming) a document must yield to be worth processing.
const MinTextLength = 30

var (
	// ErrTooShort signals "not enough text to process", not a format error.
	ErrTooShort = errors.New("not enough text to process")
	// ErrMalformed signals a document missing its expected internal
	// structure. Distinct from a sniffing rejection: the bytes matched a
	// known signature but the body could not be parsed.
	ErrMalformed = errors.New("document structure is malformed")
)

// Text produces normalized plain text from raw bytes of a detected format.
// NUL bytes are stripped (illegal in the relational store) and the result is
// trimmed before the minimum-length check.
func Text(data []byte, format security.Format) (string, error) {
	var (
		text string
		err  error
	)
	switch format {
	case security.FormatPDF:
		text, err = pdfText(data)
	case security.FormatDOCX:
		text, err = docxText(data)
	case security.FormatText:
		text = string(data)
	case security.FormatDOC:
		return "", fmt.Errorf("%w: legacy compound documents have no text extractor", ErrMalformed)
	default:
		return "", fmt.Errorf("no extractor for format %q", format)
	}
	if err != nil {
		return "", err
	}

	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.TrimSpace(text)
	// Character count, not byte count: non-ASCII documents must not slip
	// under the minimum on byte length alone.
	if utf8.RuneCountInString(text) < MinTextLength {
		return "", ErrTooShort
	}
	return text, nil
}

// pdfText concatenates the plain text of every page.
func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: reading pdf: %v", ErrMalformed, err)
	}
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// docxText opens the document as a zip archive, reads the main text-body part
// and joins all inline text runs with single spaces. The XML decoder handles
// the five standard entities.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: opening zip container: %v", ErrMalformed, err)
	}

	var docPart *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docPart = f
			break
		}
	}
	if docPart == nil {
		return "", fmt.Errorf("%w: word/document.xml part is missing", ErrMalformed)
	}

	rc, err := docPart.Open()
	if err != nil {
		return "", fmt.Errorf("%w: opening document part: %v", ErrMalformed, err)
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	var runs []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: parsing document xml: %v", ErrMalformed, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "t" {
			continue
		}
		var run string
		if err := dec.DecodeElement(&run, &start); err != nil {
			return "", fmt.Errorf("%w: decoding text run: %v", ErrMalformed, err)
		}
		if run != "" {
			runs = append(runs, run)
		}
	}
	return strings.Join(runs, " "), nil
}
