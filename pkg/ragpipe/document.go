package ragpipe

// Metadata keys stamped on every record by the loader facade.
const (
	MetaSource        = "source"
	MetaFileType      = "file_type"
	MetaFileSizeBytes = "file_size_bytes"
)

// Document is the unit of content flowing through the pipeline: loaders
// produce them, the splitter turns them into smaller ones. Metadata values
// are scalars (string, int, int64, bool).
type Document struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// NewDocument creates a document with an initialized metadata map.
func NewDocument(content string) Document {
	return Document{
		Content:  content,
		Metadata: make(map[string]any),
	}
}

// CloneMetadata returns a fresh copy of a metadata map. Split chunks carry
// copies rather than aliases so that mutating one chunk's metadata can never
// affect its siblings or the parent record.
func CloneMetadata(metadata map[string]any) map[string]any {
	cloned := make(map[string]any, len(metadata))
	for k, v := range metadata {
		cloned[k] = v
	}
	return cloned
}
