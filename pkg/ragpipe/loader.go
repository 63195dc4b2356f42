package ragpipe

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// DocumentLoader is the ingestion entry point: it validates the source path,
// resolves a format strategy through the factory, and enriches the resulting
// records with provenance metadata. Every gate aborts the whole call; no
// partial result is ever returned.
type DocumentLoader struct {
	factory  *LoaderFactory
	enricher *MetadataEnricher
	logger   *zap.Logger
}

// NewDocumentLoader creates a loader facade. A nil logger disables logging.
func NewDocumentLoader(logger *zap.Logger) *DocumentLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentLoader{
		factory:  NewLoaderFactory(logger),
		enricher: NewMetadataEnricher(logger),
		logger:   logger,
	}
}

// LoadDocument parses the file at path into records. Errors raised by the
// underlying parser libraries are logged and propagated unchanged; this
// layer performs no retries and no format fallback.
func (dl *DocumentLoader) LoadDocument(path string) ([]Document, error) {
	path = filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(path))

	dl.logger.Info("document load started",
		zap.String("path", path),
		zap.String("extension", ext))

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			nfErr := &FileNotFoundError{Path: path}
			dl.logger.Error("document load failed",
				zap.String("path", path),
				zap.Error(nfErr))
			return nil, nfErr
		}
		dl.logger.Error("document load failed",
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	loader, err := dl.factory.Create(path)
	if err != nil {
		// The factory already logged the unsupported extension.
		return nil, err
	}

	docs, err := loader.Load()
	if err != nil {
		dl.logger.Error("document parse failed",
			zap.String("path", path),
			zap.String("extension", ext),
			zap.Error(err))
		return nil, err
	}

	if len(docs) == 0 {
		emptyErr := fmt.Errorf("%w: %s", ErrEmptyDocument, path)
		dl.logger.Error("document load failed",
			zap.String("path", path),
			zap.String("extension", ext),
			zap.Error(emptyErr))
		return nil, emptyErr
	}

	// Enrichment runs last so failed loads never carry metadata.
	if err := dl.enricher.Enrich(docs, path); err != nil {
		dl.logger.Error("metadata enrichment failed",
			zap.String("path", path),
			zap.Error(err))
		return nil, err
	}

	dl.logger.Info("document loaded",
		zap.String("path", path),
		zap.String("extension", ext),
		zap.Int("records", len(docs)))

	return docs, nil
}

// IsSupportedFile reports whether the path's extension has a registered loader.
func (dl *DocumentLoader) IsSupportedFile(path string) bool {
	return dl.factory.IsSupported(path)
}

// SupportedExtensions returns every registered extension, sorted.
func (dl *DocumentLoader) SupportedExtensions() []string {
	return dl.factory.SupportedExtensions()
}
