package ragpipe

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// DOCXLoader handles Microsoft Word .docx files.
type DOCXLoader struct {
	path string
}

// NewDOCXLoader creates a DOCX loader bound to path.
func NewDOCXLoader(path string) *DOCXLoader {
	return &DOCXLoader{path: path}
}

var (
	docxParagraphRe = regexp.MustCompile(`</w:p>`)
	docxTagRe       = regexp.MustCompile(`<[^>]+>`)
)

// Load extracts the document body as a single record. The docx library
// exposes the raw document XML; paragraph boundaries become newlines and the
// remaining markup is stripped.
func (l *DOCXLoader) Load() ([]Document, error) {
	r, err := docx.ReadDocxFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open DOCX file: %w", err)
	}
	defer r.Close()

	raw := r.Editable().GetContent()
	text := cleanDocxContent(raw)
	if text == "" {
		return nil, nil
	}
	return []Document{NewDocument(text)}, nil
}

// cleanDocxContent converts document XML to plain text.
func cleanDocxContent(raw string) string {
	raw = docxParagraphRe.ReplaceAllString(raw, "\n")
	raw = docxTagRe.ReplaceAllString(raw, "")
	raw = strings.ReplaceAll(raw, "&amp;", "&")
	raw = strings.ReplaceAll(raw, "&lt;", "<")
	raw = strings.ReplaceAll(raw, "&gt;", ">")
	raw = strings.ReplaceAll(raw, "&quot;", `"`)
	raw = strings.ReplaceAll(raw, "&apos;", "'")

	lines := strings.Split(raw, "\n")
	var cleanLines []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanLines = append(cleanLines, line)
		}
	}
	return strings.Join(cleanLines, "\n")
}
