package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

type TextExtractor interface {
	Extract(filePath string) (string, error)
}

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

// Extract pulls plain text out of a resume file. PDFs go through ledongthuc/pdf,
// plain text files are read directly, everything else (docx, doc, rtf, odt)
// goes through docconv. Empty output is an error so callers can treat an
// unreadable resume as a failed item.
func (t *textExtractor) Extract(filePath string) (string, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", filePath)
	}

	var text string
	var err error

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		text, err = extractPDF(filePath)
	case ".txt", ".md":
		var raw []byte
		raw, err = os.ReadFile(filePath)
		text = string(raw)
	default:
		var res *docconv.Response
		res, err = docconv.ConvertPath(filePath)
		if err == nil {
			text = res.Body
		}
	}
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", filepath.Base(filePath), err)
	}

	text = CleanText(text)
	if text == "" {
		return "", fmt.Errorf("no text content found in %s", filepath.Base(filePath))
	}
	return text, nil
}

func extractPDF(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Log error but continue with other pages
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

// CleanText trims and collapses blank lines in extracted resume text.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
