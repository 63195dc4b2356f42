package ragpipe

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXLoader handles Excel .xlsx files, one record per non-empty sheet.
type XLSXLoader struct {
	path string
}

// NewXLSXLoader creates an XLSX loader bound to path.
func NewXLSXLoader(path string) *XLSXLoader {
	return &XLSXLoader{path: path}
}

// Load renders each sheet as labeled row text. Sheets carry a "sheet"
// metadata entry with their name.
func (l *XLSXLoader) Load() ([]Document, error) {
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	var docs []Document
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
		}

		text := renderSheet(sheetName, rows)
		if text == "" {
			continue
		}

		doc := NewDocument(text)
		doc.Metadata["sheet"] = sheetName
		docs = append(docs, doc)
	}

	return docs, nil
}

func renderSheet(sheetName string, rows [][]string) string {
	// Header row is the first row with any data; its values label the cells
	// of the rows below it.
	var headerRow []string
	dataStart := 0
	for i, row := range rows {
		if hasNonEmptyCell(row) {
			headerRow = row
			dataStart = i + 1
			break
		}
	}
	if len(headerRow) == 0 {
		return ""
	}

	var content strings.Builder
	content.WriteString(fmt.Sprintf("Sheet %s Headers: %s\n\n", sheetName, strings.Join(headerRow, " | ")))

	for i := dataStart; i < len(rows); i++ {
		row := rows[i]
		if !hasNonEmptyCell(row) {
			continue
		}

		var cells []string
		for colIndex, cell := range row {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			var columnName string
			if colIndex < len(headerRow) && strings.TrimSpace(headerRow[colIndex]) != "" {
				columnName = headerRow[colIndex]
			} else {
				columnName = excelColumnName(colIndex)
			}
			cells = append(cells, fmt.Sprintf("%s: %s", columnName, cell))
		}

		if len(cells) > 0 {
			content.WriteString(fmt.Sprintf("Row %d: %s\n", i+1, strings.Join(cells, " | ")))
		}
	}

	return content.String()
}

func hasNonEmptyCell(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

// excelColumnName converts a column index to an Excel-style name (A, B, ..., AA).
func excelColumnName(index int) string {
	name := ""
	for index >= 0 {
		name = string(rune('A'+(index%26))) + name
		index = index/26 - 1
	}
	return name
}
