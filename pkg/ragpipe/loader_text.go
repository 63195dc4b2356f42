package ragpipe

import (
	"os"
	"strings"
)

// TextLoader handles plain text files.
type TextLoader struct {
	path string
}

// NewTextLoader creates a text loader bound to path.
func NewTextLoader(path string) *TextLoader {
	return &TextLoader{path: path}
}

// Load reads the file and returns its content as a single record. Files with
// no printable content yield zero records.
func (l *TextLoader) Load() ([]Document, error) {
	content, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(content)) == "" {
		return nil, nil
	}
	return []Document{NewDocument(string(content))}, nil
}
