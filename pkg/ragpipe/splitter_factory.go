package ragpipe

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Registered splitter strategy names and default configuration.
const (
	SplitterTypeToken = "token"

	DefaultChunkSize    = 512
	DefaultChunkOverlap = 100
)

type splitterConstructor func(chunkSize, chunkOverlap int) (Splitter, error)

// splitterConstructors maps strategy names to constructors. Built once at
// process start, read-only afterwards.
var splitterConstructors = map[string]splitterConstructor{
	SplitterTypeToken: func(chunkSize, chunkOverlap int) (Splitter, error) {
		return NewTokenSplitter(chunkSize, chunkOverlap)
	},
}

// SupportedSplitterTypes returns every registered strategy name, sorted.
func SupportedSplitterTypes() []string {
	types := make([]string, 0, len(splitterConstructors))
	for t := range splitterConstructors {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// SplitterFactory resolves strategy names to splitter strategies.
type SplitterFactory struct {
	logger *zap.Logger
}

// NewSplitterFactory creates a factory. A nil logger disables logging.
func NewSplitterFactory(logger *zap.Logger) *SplitterFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SplitterFactory{logger: logger}
}

// Create validates the chunk parameters and constructs the named strategy.
// Parameter validation always precedes the type lookup, so invalid bounds
// fail the same way regardless of whether the type is registered.
func (f *SplitterFactory) Create(splitterType string, chunkSize, chunkOverlap int) (Splitter, error) {
	if chunkSize <= 0 {
		err := &InvalidParameterError{
			Parameter: "chunk_size",
			Value:     chunkSize,
			Reason:    "must be positive",
		}
		f.logger.Error("splitter construction rejected",
			zap.Int("chunk_size", chunkSize),
			zap.Error(err))
		return nil, err
	}

	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		err := &InvalidParameterError{
			Parameter: "chunk_overlap",
			Value:     chunkOverlap,
			Reason:    fmt.Sprintf("must be in [0, %d)", chunkSize),
		}
		f.logger.Error("splitter construction rejected",
			zap.Int("chunk_size", chunkSize),
			zap.Int("chunk_overlap", chunkOverlap),
			zap.Error(err))
		return nil, err
	}

	ctor, ok := splitterConstructors[splitterType]
	if !ok {
		err := &UnsupportedFormatError{
			Extension: splitterType,
			Supported: SupportedSplitterTypes(),
		}
		f.logger.Error("unsupported splitter type",
			zap.String("splitter_type", splitterType),
			zap.Strings("supported", err.Supported))
		return nil, err
	}

	return ctor(chunkSize, chunkOverlap)
}
