package ragpipe

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FileTypeUnknown is the tag stamped on records whose extension has no entry
// in the tag table. The loader factory rejects such files before enrichment,
// so this value only appears when the enricher is invoked directly.
const FileTypeUnknown = "unknown"

// extensionTags maps lowercase extensions to the file_type metadata tag.
var extensionTags = map[string]string{
	".pdf":      "pdf",
	".txt":      "text",
	".text":     "text",
	".md":       "markdown",
	".markdown": "markdown",
	".docx":     "docx",
	".csv":      "csv",
	".json":     "json",
	".xlsx":     "xlsx",
	".html":     "html",
	".htm":      "html",
}

// FileTypeTag returns the file_type tag for a path, or FileTypeUnknown for
// extensions outside the table.
func FileTypeTag(path string) string {
	if tag, ok := extensionTags[strings.ToLower(filepath.Ext(path))]; ok {
		return tag
	}
	return FileTypeUnknown
}

// MetadataEnricher stamps provenance metadata onto loaded records.
type MetadataEnricher struct {
	logger *zap.Logger
}

// NewMetadataEnricher creates an enricher. A nil logger disables logging.
func NewMetadataEnricher(logger *zap.Logger) *MetadataEnricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetadataEnricher{logger: logger}
}

// Enrich sets source path, file-type tag, and byte size on every record,
// mutating the slice in place. The file is stat'd once per call. Repeated
// calls overwrite the same keys with the same values.
func (e *MetadataEnricher) Enrich(docs []Document, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	tag := FileTypeTag(path)
	for i := range docs {
		if docs[i].Metadata == nil {
			docs[i].Metadata = make(map[string]any)
		}
		docs[i].Metadata[MetaSource] = path
		docs[i].Metadata[MetaFileType] = tag
		docs[i].Metadata[MetaFileSizeBytes] = info.Size()
	}

	e.logger.Debug("records enriched",
		zap.String("path", path),
		zap.String("file_type", tag),
		zap.Int64("file_size_bytes", info.Size()),
		zap.Int("records", len(docs)))

	return nil
}
