package ragpipe

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// CSVLoader handles CSV files.
type CSVLoader struct {
	path string
}

// NewCSVLoader creates a CSV loader bound to path.
func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{path: path}
}

// Load reads all rows and renders them as labeled text in a single record.
// The first row is treated as the header and its values label every cell.
func (l *CSVLoader) Load() ([]Document, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var content strings.Builder
	header := records[0]
	content.WriteString("CSV Headers: ")
	content.WriteString(strings.Join(header, " | "))
	content.WriteString("\n\n")

	for i, record := range records[1:] {
		content.WriteString(fmt.Sprintf("Row %d: ", i+1))
		for j, cell := range record {
			if j < len(header) {
				content.WriteString(fmt.Sprintf("%s: %s", header[j], cell))
			} else {
				content.WriteString(fmt.Sprintf("Column%d: %s", j+1, cell))
			}
			if j < len(record)-1 {
				content.WriteString(" | ")
			}
		}
		content.WriteString("\n")
	}

	return []Document{NewDocument(content.String())}, nil
}
