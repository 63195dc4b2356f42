package ragpipe

import (
	"reflect"
	"testing"
)

func TestFileTypeTag(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "a.pdf", want: "pdf"},
		{path: "a.txt", want: "text"},
		{path: "a.TEXT", want: "text"},
		{path: "a.md", want: "markdown"},
		{path: "a.markdown", want: "markdown"},
		{path: "a.docx", want: "docx"},
		{path: "a.csv", want: "csv"},
		{path: "a.json", want: "json"},
		{path: "a.xlsx", want: "xlsx"},
		{path: "a.htm", want: "html"},
		{path: "a.exe", want: FileTypeUnknown},
		{path: "noext", want: FileTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FileTypeTag(tt.path); got != tt.want {
				t.Errorf("FileTypeTag(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestMetadataEnricher_Enrich(t *testing.T) {
	content := "twelve bytes"
	path := writeTestFile(t, "data.txt", content)

	docs := []Document{
		NewDocument("first"),
		{Content: "second"}, // nil metadata map
	}

	enricher := NewMetadataEnricher(nil)
	if err := enricher.Enrich(docs, path); err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}

	for i, doc := range docs {
		if got := doc.Metadata[MetaSource]; got != path {
			t.Errorf("record %d source = %v, want %q", i, got, path)
		}
		if got := doc.Metadata[MetaFileType]; got != "text" {
			t.Errorf("record %d file_type = %v, want %q", i, got, "text")
		}
		if got := doc.Metadata[MetaFileSizeBytes]; got != int64(len(content)) {
			t.Errorf("record %d file_size_bytes = %v, want %d", i, got, len(content))
		}
	}
}

func TestMetadataEnricher_Enrich_Idempotent(t *testing.T) {
	path := writeTestFile(t, "data.txt", "payload")

	docs := []Document{NewDocument("content")}
	enricher := NewMetadataEnricher(nil)

	if err := enricher.Enrich(docs, path); err != nil {
		t.Fatalf("first Enrich returned error: %v", err)
	}
	first := CloneMetadata(docs[0].Metadata)

	if err := enricher.Enrich(docs, path); err != nil {
		t.Fatalf("second Enrich returned error: %v", err)
	}

	if !reflect.DeepEqual(first, docs[0].Metadata) {
		t.Errorf("metadata changed across Enrich calls: %v vs %v", first, docs[0].Metadata)
	}
}

func TestMetadataEnricher_Enrich_UnknownFallback(t *testing.T) {
	// Reachable only when bypassing the factory's extension gate.
	path := writeTestFile(t, "blob.bin", "binary")

	docs := []Document{NewDocument("content")}
	enricher := NewMetadataEnricher(nil)
	if err := enricher.Enrich(docs, path); err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}

	if got := docs[0].Metadata[MetaFileType]; got != FileTypeUnknown {
		t.Errorf("file_type = %v, want %q", got, FileTypeUnknown)
	}
}

func TestMetadataEnricher_Enrich_MissingFile(t *testing.T) {
	enricher := NewMetadataEnricher(nil)
	docs := []Document{NewDocument("content")}

	if err := enricher.Enrich(docs, "does/not/exist.txt"); err == nil {
		t.Fatal("Enrich succeeded for missing file")
	}
}

func TestCloneMetadata_Independent(t *testing.T) {
	original := map[string]any{"source": "a.pdf", "file_type": "pdf"}
	cloned := CloneMetadata(original)

	cloned["file_type"] = "changed"
	if original["file_type"] != "pdf" {
		t.Error("mutating the clone changed the original map")
	}
}
