package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rag-pipe/pkg/metrics"
	"rag-pipe/pkg/ragpipe"
)

// Pipeline is the subset of pipeline operations the HTTP layer needs.
type Pipeline interface {
	Ingest(ctx context.Context, path, documentID string) (*ragpipe.IngestResult, error)
	SupportedExtensions() []string
	ListDocuments(ctx context.Context) ([]ragpipe.DocumentInfo, error)
	GetDocumentByID(ctx context.Context, id string) (*ragpipe.DocumentInfo, error)
	GetDocumentChunks(ctx context.Context, id string) ([]ragpipe.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

type Handler struct {
	pipeline Pipeline
	logger   *zap.Logger
	version  string
}

type IngestRequest struct {
	Path string `json:"path"`
	ID   string `json:"id,omitempty"`
}

type IngestResponse struct {
	Success    bool   `json:"success"`
	DocumentID string `json:"document_id"`
	Records    int    `json:"records"`
	Chunks     int    `json:"chunks"`
	Message    string `json:"message,omitempty"`
}

type FormatsResponse struct {
	Formats []string `json:"formats"`
	Count   int      `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func New(pipeline Pipeline, logger *zap.Logger) *Handler {
	return NewWithVersion(pipeline, logger, "dev")
}

func NewWithVersion(pipeline Pipeline, logger *zap.Logger, version string) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{pipeline: pipeline, logger: logger, version: version}
}

// LoggingMiddleware logs HTTP requests and records Prometheus metrics
func LoggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrappedWriter := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrappedWriter, r)

			duration := time.Since(start)
			metrics.RecordHTTPRequest(r.Method, r.URL.Path, wrappedWriter.statusCode, duration)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status", wrappedWriter.statusCode),
				zap.Duration("duration", duration))
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (h *Handler) Ingest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
			return
		}

		contentType := r.Header.Get("Content-Type")
		if strings.HasPrefix(contentType, "multipart/form-data") {
			h.handleFileUpload(w, r)
			return
		}

		var req IngestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn("failed to decode ingest request", zap.Error(err))
			h.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}

		if req.Path == "" {
			h.writeError(w, http.StatusBadRequest, "path is required", "")
			return
		}

		h.performIngest(w, r, req.Path, req.ID, "")
	}
}

func (h *Handler) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	// 50MB upload cap
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		h.writeError(w, http.StatusBadRequest, "failed to parse form", err.Error())
		return
	}

	id := r.FormValue("id")

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "file is required", err.Error())
		return
	}
	defer file.Close()

	tempFile, err := os.CreateTemp(os.TempDir(), "ragpipe_upload_*"+filepath.Ext(header.Filename))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to create temp file", err.Error())
		return
	}
	defer os.Remove(tempFile.Name())

	if _, err := io.Copy(tempFile, file); err != nil {
		tempFile.Close()
		h.writeError(w, http.StatusInternalServerError, "failed to save file", err.Error())
		return
	}
	tempFile.Close()

	h.performIngest(w, r, tempFile.Name(), id, header.Filename)
}

func (h *Handler) performIngest(w http.ResponseWriter, r *http.Request, path, id, filename string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	ingestStart := time.Now()
	result, err := h.pipeline.Ingest(ctx, path, id)
	ingestDuration := time.Since(ingestStart)

	if err != nil {
		metrics.RecordIngest(ingestDuration, false)
		status, label := mapError(err)
		h.logger.Warn("ingest failed",
			zap.String("path", path),
			zap.Int("status", status),
			zap.Error(err))
		h.writeError(w, status, label, err.Error())
		return
	}

	metrics.RecordIngest(ingestDuration, true)
	h.updateDocumentCount(ctx)

	name := filename
	if name == "" {
		name = filepath.Base(path)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	resp := IngestResponse{
		Success:    true,
		DocumentID: result.DocumentID,
		Records:    result.Records,
		Chunks:     result.Chunks,
		Message:    fmt.Sprintf("Ingested '%s': %d records, %d chunks", name, result.Records, result.Chunks),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode ingest response", zap.Error(err))
	}
}

func (h *Handler) Formats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			h.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
			return
		}

		formats := h.pipeline.SupportedExtensions()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(FormatsResponse{Formats: formats, Count: len(formats)}); err != nil {
			h.logger.Error("failed to encode formats response", zap.Error(err))
		}
	}
}

func (h *Handler) Documents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			h.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		documents, err := h.pipeline.ListDocuments(ctx)
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, "failed to list documents", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"documents": documents,
			"count":     len(documents),
		}); err != nil {
			h.logger.Error("failed to encode documents response", zap.Error(err))
		}
	}
}

// DocumentRouter routes /api/documents/{id} requests by method and suffix
func (h *Handler) DocumentRouter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete:
			h.DeleteDocument().ServeHTTP(w, r)
		case strings.HasSuffix(r.URL.Path, "/chunks"):
			h.DocumentChunks().ServeHTTP(w, r)
		default:
			h.Document().ServeHTTP(w, r)
		}
	}
}

func (h *Handler) Document() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			h.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
			return
		}

		documentID := documentIDFromPath(r.URL.Path, "")
		if documentID == "" {
			h.writeError(w, http.StatusBadRequest, "document ID required", "")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		info, err := h.pipeline.GetDocumentByID(ctx, documentID)
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, "failed to get document", err.Error())
			return
		}
		if info == nil {
			h.writeError(w, http.StatusNotFound, "document not found", documentID)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(info); err != nil {
			h.logger.Error("failed to encode document response", zap.Error(err))
		}
	}
}

func (h *Handler) DocumentChunks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			h.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
			return
		}

		documentID := documentIDFromPath(r.URL.Path, "/chunks")
		if documentID == "" {
			h.writeError(w, http.StatusBadRequest, "document ID required", "")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		chunks, err := h.pipeline.GetDocumentChunks(ctx, documentID)
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, "failed to get chunks", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"document_id": documentID,
			"chunks":      chunks,
			"count":       len(chunks),
		}); err != nil {
			h.logger.Error("failed to encode chunks response", zap.Error(err))
		}
	}
}

func (h *Handler) DeleteDocument() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			h.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
			return
		}

		documentID := documentIDFromPath(r.URL.Path, "")
		if documentID == "" {
			h.writeError(w, http.StatusBadRequest, "document ID required", "")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		info, err := h.pipeline.GetDocumentByID(ctx, documentID)
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, "failed to get document", err.Error())
			return
		}
		if info == nil {
			h.writeError(w, http.StatusNotFound, "document not found", documentID)
			return
		}

		if err := h.pipeline.DeleteDocument(ctx, documentID); err != nil {
			h.writeError(w, http.StatusInternalServerError, "failed to delete document", err.Error())
			return
		}

		h.updateDocumentCount(ctx)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{
			"status":  "success",
			"message": "Document deleted successfully",
		}); err != nil {
			h.logger.Error("failed to encode delete response", zap.Error(err))
		}
	}
}

func (h *Handler) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			h.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
			"version":   h.version,
		}); err != nil {
			h.logger.Error("failed to encode health response", zap.Error(err))
		}
	}
}

func (h *Handler) Metrics() http.HandlerFunc {
	return promhttp.Handler().ServeHTTP
}

func (h *Handler) updateDocumentCount(ctx context.Context) {
	if documents, err := h.pipeline.ListDocuments(ctx); err == nil {
		metrics.UpdateDocumentCount(len(documents))
	} else {
		h.logger.Warn("failed to update document count metric", zap.Error(err))
	}
}

// mapError translates pipeline errors to HTTP status codes
func mapError(err error) (int, string) {
	var nfErr *ragpipe.FileNotFoundError
	if errors.As(err, &nfErr) {
		return http.StatusNotFound, "file not found"
	}

	var ufErr *ragpipe.UnsupportedFormatError
	if errors.As(err, &ufErr) {
		return http.StatusUnsupportedMediaType, "unsupported format"
	}

	var ipErr *ragpipe.InvalidParameterError
	if errors.As(err, &ipErr) {
		return http.StatusBadRequest, "invalid parameter"
	}

	if errors.Is(err, ragpipe.ErrEmptyDocument) || errors.Is(err, ragpipe.ErrEmptyInput) {
		return http.StatusBadRequest, "empty document"
	}

	return http.StatusInternalServerError, "ingest failed"
}

func documentIDFromPath(path, suffix string) string {
	id := strings.TrimPrefix(path, "/api/documents/")
	if suffix != "" {
		id = strings.TrimSuffix(id, suffix)
	}
	return strings.TrimSuffix(id, "/")
}

func (h *Handler) writeError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	response := ErrorResponse{
		Error:   errType,
		Message: message,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode error response", zap.Error(err))
	}
}
