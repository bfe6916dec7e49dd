// Package extract pulls plain text out of uploaded documents. PDFs are read
// page by page up to a caller-supplied page cap; plain text passes through.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// DefaultMaxPages bounds extraction for court evidence and assistant uploads.
const DefaultMaxPages = 5

var (
	// ErrUnsupported is returned for formats that carry no extractable text.
	ErrUnsupported = errors.New("unsupported document type")
	// ErrMalformed is returned when a document cannot be decoded.
	ErrMalformed = errors.New("malformed document")
)

const (
	MIMEPDF   = "application/pdf"
	MIMEPlain = "text/plain"
)

// DetectMIME sniffs the content type, preferring the file extension for the
// formats this package understands.
func DetectMIME(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MIMEPDF
	case ".txt", ".md":
		return MIMEPlain
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	}
	ct := http.DetectContentType(data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return ct
}

// IsImage reports whether mime is an image type the gateway accepts as bytes.
func IsImage(mime string) bool { return strings.HasPrefix(mime, "image/") }

// IsText reports whether Text can handle mime.
func IsText(mime string) bool { return mime == MIMEPDF || strings.HasPrefix(mime, "text/") }

// Text returns the text content of data. maxPages <= 0 means no cap.
func Text(mime string, data []byte, maxPages int) (string, error) {
	switch {
	case mime == MIMEPDF:
		return pdfText(data, maxPages)
	case strings.HasPrefix(mime, "text/"):
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: text is not valid UTF-8", ErrMalformed)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupported, mime)
}

// pageSource is the slice of a PDF reader used by collect.
type pageSource interface {
	NumPage() int
	PageText(i int) (string, error)
}

type pdfPages struct{ r *pdf.Reader }

func (p pdfPages) NumPage() int { return p.r.NumPage() }

func (p pdfPages) PageText(i int) (string, error) {
	page := p.r.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

func pdfText(data []byte, maxPages int) (out string, err error) {
	// The PDF decoder panics on some corrupt inputs.
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return collect(pdfPages{r}, maxPages)
}

// collect concatenates page texts (1-indexed) up to maxPages.
func collect(src pageSource, maxPages int) (string, error) {
	n := src.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}
	var b strings.Builder
	for i := 1; i <= n; i++ {
		t, err := src.PageText(i)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrMalformed, i, err)
		}
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(t)
	}
	return b.String(), nil
}
