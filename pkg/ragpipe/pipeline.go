package ragpipe

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rag-pipe/pkg/metrics"
)

// Config holds the pipeline's construction-time settings. A negative
// ChunkOverlap means unset; zero is a valid overlap and is kept as given.
type Config struct {
	DatabasePath string
	ChunkSize    int
	ChunkOverlap int
	SplitterType string
}

// Pipeline wires the loader facade, splitter facade, and chunk store into
// the ingest operation exposed to the HTTP layer and CLI.
type Pipeline struct {
	loader   *DocumentLoader
	splitter *DocumentSplitter
	storage  Storage
	logger   *zap.Logger
	config   *Config
}

// IngestResult reports what one ingest call produced.
type IngestResult struct {
	DocumentID string `json:"document_id"`
	Records    int    `json:"records"`
	Chunks     int    `json:"chunks"`
}

// GenerateDocumentID returns a fresh random document identifier.
func GenerateDocumentID() string {
	return "doc-" + uuid.NewString()
}

// New creates a pipeline. Unset config fields get defaults (ChunkOverlap is
// unset only when negative, so an explicit 0 survives); the caller's Config
// is never modified. Invalid chunk parameters fail at splitter construction.
func New(config *Config, logger *zap.Logger) (*Pipeline, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := *config
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "ragpipe.db"
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = DefaultChunkOverlap
	}
	if cfg.SplitterType == "" {
		cfg.SplitterType = SplitterTypeToken
	}

	return &Pipeline{
		logger: logger,
		config: &cfg,
	}, nil
}

// Initialize opens the chunk store and constructs the loader and splitter
// facades. Must be called once before Ingest.
func (p *Pipeline) Initialize() error {
	storage, err := NewSQLiteStorage(p.config.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	p.storage = storage

	p.loader = NewDocumentLoader(p.logger)

	splitter, err := NewDocumentSplitter(p.config.ChunkSize, p.config.ChunkOverlap, p.config.SplitterType, p.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize splitter: %w", err)
	}
	p.splitter = splitter

	return p.storage.Initialize()
}

// Ingest loads the file at path, splits it into chunks, and persists the
// result under id. An empty id gets a generated one.
func (p *Pipeline) Ingest(ctx context.Context, path, id string) (*IngestResult, error) {
	if p.loader == nil || p.splitter == nil || p.storage == nil {
		return nil, fmt.Errorf("pipeline not initialized - call Initialize() first")
	}
	if id == "" {
		id = GenerateDocumentID()
	}

	loadStart := time.Now()
	records, err := p.loader.LoadDocument(path)
	metrics.RecordLoad(FileTypeTag(path), time.Since(loadStart), err == nil, len(records))
	if err != nil {
		return nil, err
	}

	splitStart := time.Now()
	chunks, err := p.splitter.SplitDocuments(records)
	metrics.RecordSplit(time.Since(splitStart), err == nil, len(chunks))
	if err != nil {
		return nil, err
	}

	info := documentInfoFromRecords(id, records, chunks)
	if err := p.storage.SaveDocument(ctx, info, chunks); err != nil {
		return nil, fmt.Errorf("failed to store document %s: %w", id, err)
	}

	p.logger.Info("document ingested",
		zap.String("document_id", id),
		zap.String("path", path),
		zap.Int("records", len(records)),
		zap.Int("chunks", len(chunks)))

	return &IngestResult{
		DocumentID: id,
		Records:    len(records),
		Chunks:     len(chunks),
	}, nil
}

// documentInfoFromRecords lifts the enriched provenance metadata off the
// first record; every record from one load carries identical values.
func documentInfoFromRecords(id string, records, chunks []Document) DocumentInfo {
	info := DocumentInfo{
		ID:          id,
		RecordCount: len(records),
		ChunkCount:  len(chunks),
	}
	if len(records) == 0 {
		return info
	}

	meta := records[0].Metadata
	if source, ok := meta[MetaSource].(string); ok {
		info.SourcePath = source
	}
	if fileType, ok := meta[MetaFileType].(string); ok {
		info.FileType = fileType
	}
	if size, ok := meta[MetaFileSizeBytes].(int64); ok {
		info.FileSizeBytes = size
	}
	return info
}

// LoadDocument exposes the loader facade without persisting anything.
func (p *Pipeline) LoadDocument(path string) ([]Document, error) {
	if p.loader == nil {
		return nil, fmt.Errorf("pipeline not initialized - call Initialize() first")
	}
	return p.loader.LoadDocument(path)
}

// SplitDocuments exposes the splitter facade without persisting anything.
func (p *Pipeline) SplitDocuments(docs []Document) ([]Document, error) {
	if p.splitter == nil {
		return nil, fmt.Errorf("pipeline not initialized - call Initialize() first")
	}
	return p.splitter.SplitDocuments(docs)
}

// IsSupportedFile reports whether the path's extension has a registered loader.
func (p *Pipeline) IsSupportedFile(path string) bool {
	if p.loader == nil {
		return false
	}
	return p.loader.IsSupportedFile(path)
}

// SupportedExtensions returns every registered extension, sorted.
func (p *Pipeline) SupportedExtensions() []string {
	return SupportedExtensions()
}

// ChunkSize returns the configured chunk size in tokens.
func (p *Pipeline) ChunkSize() int { return p.config.ChunkSize }

// ChunkOverlap returns the configured overlap in tokens.
func (p *Pipeline) ChunkOverlap() int { return p.config.ChunkOverlap }

// ListDocuments returns all stored documents.
func (p *Pipeline) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	if p.storage == nil {
		return nil, fmt.Errorf("pipeline not initialized - call Initialize() first")
	}
	return p.storage.ListDocuments(ctx)
}

// GetDocumentByID returns one stored document, or nil when absent.
func (p *Pipeline) GetDocumentByID(ctx context.Context, documentID string) (*DocumentInfo, error) {
	if p.storage == nil {
		return nil, fmt.Errorf("pipeline not initialized - call Initialize() first")
	}
	return p.storage.GetDocumentByID(ctx, documentID)
}

// GetDocumentChunks returns a document's stored chunks in index order.
func (p *Pipeline) GetDocumentChunks(ctx context.Context, documentID string) ([]Document, error) {
	if p.storage == nil {
		return nil, fmt.Errorf("pipeline not initialized - call Initialize() first")
	}
	return p.storage.GetDocumentChunks(ctx, documentID)
}

// DeleteDocument removes a stored document and its chunks.
func (p *Pipeline) DeleteDocument(ctx context.Context, documentID string) error {
	if p.storage == nil {
		return fmt.Errorf("pipeline not initialized - call Initialize() first")
	}
	return p.storage.DeleteDocument(ctx, documentID)
}

// Close releases the chunk store.
func (p *Pipeline) Close() error {
	if p.storage != nil {
		return p.storage.Close()
	}
	return nil
}
