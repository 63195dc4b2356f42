package ragpipe

import (
	"go.uber.org/zap"
)

// Splitter turns records into bounded-size chunks. Implementations are
// configured at construction and carry no per-call state.
type Splitter interface {
	SplitDocuments(docs []Document) ([]Document, error)
}

// DocumentSplitter is the splitting entry point: it validates input, logs,
// and delegates to the strategy resolved at construction.
type DocumentSplitter struct {
	strategy     Splitter
	splitterType string
	chunkSize    int
	chunkOverlap int
	logger       *zap.Logger
}

// NewDocumentSplitter creates a splitter facade. An empty splitterType
// selects the token strategy. Parameter bounds are validated before any
// strategy is constructed; out-of-bounds values fail, they are never
// clamped. A nil logger disables logging.
func NewDocumentSplitter(chunkSize, chunkOverlap int, splitterType string, logger *zap.Logger) (*DocumentSplitter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if splitterType == "" {
		splitterType = SplitterTypeToken
	}

	strategy, err := NewSplitterFactory(logger).Create(splitterType, chunkSize, chunkOverlap)
	if err != nil {
		return nil, err
	}

	return &DocumentSplitter{
		strategy:     strategy,
		splitterType: splitterType,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger,
	}, nil
}

// SplitDocuments chunks every input record. Each output chunk carries a deep
// copy of its parent record's metadata. Strategy failures are logged and
// propagated unchanged.
func (ds *DocumentSplitter) SplitDocuments(docs []Document) ([]Document, error) {
	if len(docs) == 0 {
		ds.logger.Error("document split rejected", zap.Error(ErrEmptyInput))
		return nil, ErrEmptyInput
	}

	ds.logger.Info("document split started",
		zap.Int("records", len(docs)),
		zap.Int("chunk_size", ds.chunkSize),
		zap.Int("chunk_overlap", ds.chunkOverlap),
		zap.String("splitter_type", ds.splitterType))

	chunks, err := ds.strategy.SplitDocuments(docs)
	if err != nil {
		ds.logger.Error("document split failed",
			zap.Int("records", len(docs)),
			zap.Error(err))
		return nil, err
	}

	ds.logger.Info("document split completed",
		zap.Int("records", len(docs)),
		zap.Int("chunks", len(chunks)))

	return chunks, nil
}

// ChunkSize returns the configured chunk size in tokens.
func (ds *DocumentSplitter) ChunkSize() int { return ds.chunkSize }

// ChunkOverlap returns the configured overlap in tokens.
func (ds *DocumentSplitter) ChunkOverlap() int { return ds.chunkOverlap }

// SplitterType returns the configured strategy name.
func (ds *DocumentSplitter) SplitterType() string { return ds.splitterType }
