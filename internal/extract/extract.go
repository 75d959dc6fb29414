// Package extract turns uploaded file bytes into plain text. PDF text is
// pulled page by page with the pure-Go ledongthuc/pdf library, so a single
// static binary is enough to deploy.
package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// MediaKind is the declared format of an uploaded file.
type MediaKind string

const (
	KindPDF  MediaKind = "application/pdf"
	KindText MediaKind = "text/plain"
)

// KindForContentType maps an upload's MIME type to a MediaKind.
// Unknown types are reported as unsupported.
func KindForContentType(contentType string) (MediaKind, bool) {
	// Strip any ";charset=..." suffix.
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	switch MediaKind(strings.TrimSpace(contentType)) {
	case KindPDF:
		return KindPDF, true
	case KindText:
		return KindText, true
	}
	return "", false
}

// ExtractionError reports a file whose bytes were not valid for the
// declared media kind.
type ExtractionError struct {
	Kind MediaKind
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extract produces the textual content of one file. PDF pages are
// concatenated in page order with a newline between pages; plain text is
// passed through after a UTF-8 validity check.
func Extract(data []byte, kind MediaKind) (string, error) {
	switch kind {
	case KindPDF:
		return extractPDF(data)
	case KindText:
		if !utf8.Valid(data) {
			return "", &ExtractionError{Kind: kind, Err: fmt.Errorf("not valid UTF-8")}
		}
		return string(data), nil
	default:
		return "", &ExtractionError{Kind: kind, Err: fmt.Errorf("unsupported media kind")}
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Kind: KindPDF, Err: err}
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Image-only or damaged pages yield no text; keep going so a
			// partially extracted blob is still usable.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
