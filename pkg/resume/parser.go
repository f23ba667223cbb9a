package resume

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/resumatch/backend/pkg/nlp"
)

// Supported document media types.
const (
	MimePDF  = "application/pdf"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

var (
	// ErrUnsupportedFormat rejects documents this parser cannot read.
	ErrUnsupportedFormat = errors.New("unsupported resume format: only pdf, docx and plain text are allowed")
	// ErrEmptyContent rejects documents whose extracted text is blank.
	ErrEmptyContent = errors.New("empty resume content")
)

// Parse extracts a structured Profile from an uploaded document. Parsing is
// deterministic: identical input bytes always yield an identical profile.
func Parse(data []byte, mimeType string) (Profile, error) {
	var (
		text string
		err  error
	)
	switch mimeType {
	case MimePDF:
		text, err = extractTextFromPDF(data)
	case MimeDocx:
		text, err = extractTextFromDocx(data)
	case MimeText:
		text = string(data)
	default:
		return Profile{}, ErrUnsupportedFormat
	}
	if err != nil {
		return Profile{}, fmt.Errorf("extract text: %w", err)
	}

	text = normalizeWhitespace(text)
	if text == "" {
		return Profile{}, ErrEmptyContent
	}

	return Profile{
		RawText:  text,
		Skills:   nlp.ExtractSkills(text),
		Sections: splitSections(text),
	}, nil
}

func extractTextFromPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	r, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err = io.Copy(&buf, rs); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractTextFromDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()
	raw := doc.Editable().GetContent()
	// GetContent returns the document XML; strip tags, keep paragraph breaks.
	raw = strings.ReplaceAll(raw, "</w:p>", "\n")
	raw = strings.ReplaceAll(raw, "<w:tab/>", "\t")
	reTags := regexp.MustCompile(`<[^>]+>`)
	return reTags.ReplaceAllString(raw, " "), nil
}

func normalizeWhitespace(s string) string {
	re := regexp.MustCompile(`[ \t\r\f\v]+`)
	s = re.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, " ", " ")
	// preserve newlines but collapse runs
	reN := regexp.MustCompile(`\n+`)
	s = reN.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
