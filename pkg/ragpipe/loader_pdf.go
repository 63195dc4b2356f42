package ragpipe

import (
	"fmt"
	"strings"

	"github.com/dslipak/pdf"
)

// PDFLoader extracts text from PDF files, one record per non-empty page.
type PDFLoader struct {
	path string
}

// NewPDFLoader creates a PDF loader bound to path.
func NewPDFLoader(path string) *PDFLoader {
	return &PDFLoader{path: path}
}

// Load parses the PDF and returns one record per page with readable text.
// Pages carry a "page" metadata entry with their 1-based page number.
func (l *PDFLoader) Load() ([]Document, error) {
	r, err := pdf.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}

	totalPages := r.NumPage()
	docs := make([]Document, 0, totalPages)

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		pageText := extractPageText(page)
		if strings.TrimSpace(pageText) == "" {
			continue
		}

		doc := NewDocument(pageText)
		doc.Metadata["page"] = pageNum
		docs = append(docs, doc)
	}

	return docs, nil
}

// extractPageText assembles page text row by row, falling back to the plain
// content stream when row extraction fails.
func extractPageText(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		plainTexts := page.Content().Text
		var plainBuilder strings.Builder
		for _, text := range plainTexts {
			plainBuilder.WriteString(text.S)
			plainBuilder.WriteString(" ")
		}
		return strings.TrimSpace(plainBuilder.String())
	}

	var textBuilder strings.Builder
	for _, row := range rows {
		rowTexts := make([]string, 0, len(row.Content))
		for _, word := range row.Content {
			if word.S != "" {
				rowTexts = append(rowTexts, word.S)
			}
		}

		if len(rowTexts) > 0 {
			textBuilder.WriteString(strings.Join(rowTexts, " "))
			textBuilder.WriteString("\n")
		}
	}

	return strings.TrimSpace(textBuilder.String())
}
