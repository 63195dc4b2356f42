package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rag-pipe/pkg/ragpipe"
)

// stubPipeline implements Pipeline for handler tests.
type stubPipeline struct {
	ingestResult *ragpipe.IngestResult
	ingestErr    error
	ingestedPath string
	ingestedID   string
	documents    []ragpipe.DocumentInfo
	chunks       []ragpipe.Document
	deleted      []string
}

func (s *stubPipeline) Ingest(_ context.Context, path, documentID string) (*ragpipe.IngestResult, error) {
	s.ingestedPath = path
	s.ingestedID = documentID
	if s.ingestErr != nil {
		return nil, s.ingestErr
	}
	return s.ingestResult, nil
}

func (s *stubPipeline) SupportedExtensions() []string {
	return []string{".csv", ".docx", ".json", ".md", ".pdf", ".txt"}
}

func (s *stubPipeline) ListDocuments(_ context.Context) ([]ragpipe.DocumentInfo, error) {
	return s.documents, nil
}

func (s *stubPipeline) GetDocumentByID(_ context.Context, id string) (*ragpipe.DocumentInfo, error) {
	for i := range s.documents {
		if s.documents[i].ID == id {
			return &s.documents[i], nil
		}
	}
	return nil, nil
}

func (s *stubPipeline) GetDocumentChunks(_ context.Context, _ string) ([]ragpipe.Document, error) {
	return s.chunks, nil
}

func (s *stubPipeline) DeleteDocument(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func TestIngest_JSON(t *testing.T) {
	stub := &stubPipeline{ingestResult: &ragpipe.IngestResult{DocumentID: "doc-1", Records: 2, Chunks: 5}}
	handler := New(stub, nil)

	body := bytes.NewBufferString(`{"path": "/tmp/report.pdf", "id": "doc-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Ingest()(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp IngestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.DocumentID != "doc-1" || resp.Records != 2 || resp.Chunks != 5 {
		t.Errorf("response = %+v", resp)
	}
	if stub.ingestedPath != "/tmp/report.pdf" || stub.ingestedID != "doc-1" {
		t.Errorf("pipeline received path=%q id=%q", stub.ingestedPath, stub.ingestedID)
	}
}

func TestIngest_MissingPath(t *testing.T) {
	handler := New(&stubPipeline{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(`{"id": "x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Ingest()(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestIngest_MethodNotAllowed(t *testing.T) {
	handler := New(&stubPipeline{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/ingest", nil)
	rec := httptest.NewRecorder()

	handler.Ingest()(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestIngest_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "file not found",
			err:        &ragpipe.FileNotFoundError{Path: "/tmp/gone.pdf"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unsupported format",
			err:        &ragpipe.UnsupportedFormatError{Extension: ".exe"},
			wantStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:       "invalid parameter",
			err:        &ragpipe.InvalidParameterError{Parameter: "chunk_size", Value: 0},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty document",
			err:        fmt.Errorf("%w: /tmp/blank.txt", ragpipe.ErrEmptyDocument),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "parse failure",
			err:        fmt.Errorf("failed to parse PDF: corrupt xref"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := New(&stubPipeline{ingestErr: tt.err}, nil)

			body := strings.NewReader(`{"path": "/tmp/somefile"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/ingest", body)
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			handler.Ingest()(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestIngest_FileUpload(t *testing.T) {
	stub := &stubPipeline{ingestResult: &ragpipe.IngestResult{DocumentID: "doc-up", Records: 1, Chunks: 1}}
	handler := New(stub, nil)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("id", "doc-up"); err != nil {
		t.Fatalf("failed to write field: %v", err)
	}
	part, err := writer.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte("uploaded content")); err != nil {
		t.Fatalf("failed to write file part: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/ingest", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.Ingest()(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if stub.ingestedID != "doc-up" {
		t.Errorf("pipeline received id %q, want doc-up", stub.ingestedID)
	}
	if !strings.HasSuffix(stub.ingestedPath, ".txt") {
		t.Errorf("upload temp path %q does not keep the extension", stub.ingestedPath)
	}
}

func TestFormats(t *testing.T) {
	handler := New(&stubPipeline{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/formats", nil)
	rec := httptest.NewRecorder()

	handler.Formats()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp FormatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 6 || len(resp.Formats) != 6 {
		t.Errorf("response = %+v", resp)
	}
}

func TestDocuments_List(t *testing.T) {
	stub := &stubPipeline{documents: []ragpipe.DocumentInfo{
		{ID: "doc-1", SourcePath: "a.txt", FileType: "text"},
		{ID: "doc-2", SourcePath: "b.pdf", FileType: "pdf"},
	}}
	handler := New(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	rec := httptest.NewRecorder()

	handler.Documents()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("count = %d, want 2", resp.Count)
	}
}

func TestDocument_Found(t *testing.T) {
	stub := &stubPipeline{documents: []ragpipe.DocumentInfo{{ID: "doc-1", FileType: "pdf"}}}
	handler := New(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/doc-1", nil)
	rec := httptest.NewRecorder()

	handler.DocumentRouter()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var info ragpipe.DocumentInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if info.ID != "doc-1" || info.FileType != "pdf" {
		t.Errorf("document = %+v", info)
	}
}

func TestDocument_NotFound(t *testing.T) {
	handler := New(&stubPipeline{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/missing", nil)
	rec := httptest.NewRecorder()

	handler.DocumentRouter()(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestDocumentChunks(t *testing.T) {
	stub := &stubPipeline{
		documents: []ragpipe.DocumentInfo{{ID: "doc-1"}},
		chunks: []ragpipe.Document{
			{Content: "chunk a"},
			{Content: "chunk b"},
		},
	}
	handler := New(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/doc-1/chunks", nil)
	rec := httptest.NewRecorder()

	handler.DocumentRouter()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		DocumentID string `json:"document_id"`
		Count      int    `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.DocumentID != "doc-1" || resp.Count != 2 {
		t.Errorf("response = %+v", resp)
	}
}

func TestDeleteDocument(t *testing.T) {
	stub := &stubPipeline{documents: []ragpipe.DocumentInfo{{ID: "doc-1"}}}
	handler := New(stub, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/documents/doc-1", nil)
	rec := httptest.NewRecorder()

	handler.DocumentRouter()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if len(stub.deleted) != 1 || stub.deleted[0] != "doc-1" {
		t.Errorf("deleted = %v, want [doc-1]", stub.deleted)
	}
}

func TestDeleteDocument_NotFound(t *testing.T) {
	stub := &stubPipeline{}
	handler := New(stub, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/documents/missing", nil)
	rec := httptest.NewRecorder()

	handler.DocumentRouter()(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if len(stub.deleted) != 0 {
		t.Errorf("deleted = %v, want none", stub.deleted)
	}
}

func TestHealth(t *testing.T) {
	handler := NewWithVersion(&stubPipeline{}, nil, "1.2.3")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	handler.Health()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("status field = %v, want healthy", resp["status"])
	}
	if resp["version"] != "1.2.3" {
		t.Errorf("version field = %v, want 1.2.3", resp["version"])
	}
}

func TestLoggingMiddleware_PassesThrough(t *testing.T) {
	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})

	mw := LoggingMiddleware(nil)
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !called {
		t.Error("middleware did not call inner handler")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}
