package ragpipe

import (
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Loader parses one source file into records. Each implementation is a thin
// adapter over an external parsing library, bound to its path at
// construction and discarded after a single Load call.
type Loader interface {
	Load() ([]Document, error)
}

type loaderConstructor func(path string) Loader

// loaderConstructors maps lowercase file extensions to strategy
// constructors. Built once at process start, read-only afterwards.
var loaderConstructors = map[string]loaderConstructor{
	".pdf":      func(path string) Loader { return NewPDFLoader(path) },
	".txt":      func(path string) Loader { return NewTextLoader(path) },
	".text":     func(path string) Loader { return NewTextLoader(path) },
	".md":       func(path string) Loader { return NewMarkdownLoader(path) },
	".markdown": func(path string) Loader { return NewMarkdownLoader(path) },
	".docx":     func(path string) Loader { return NewDOCXLoader(path) },
	".csv":      func(path string) Loader { return NewCSVLoader(path) },
	".json":     func(path string) Loader { return NewJSONLoader(path) },
	".xlsx":     func(path string) Loader { return NewXLSXLoader(path) },
	".html":     func(path string) Loader { return NewHTMLLoader(path) },
	".htm":      func(path string) Loader { return NewHTMLLoader(path) },
}

// SupportedExtensions returns every registered extension, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(loaderConstructors))
	for ext := range loaderConstructors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// LoaderFactory resolves file paths to loader strategies by extension.
type LoaderFactory struct {
	logger *zap.Logger
}

// NewLoaderFactory creates a factory. A nil logger disables logging.
func NewLoaderFactory(logger *zap.Logger) *LoaderFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoaderFactory{logger: logger}
}

// Create returns the loader strategy registered for the path's extension.
// Unregistered extensions fail with UnsupportedFormatError carrying the
// offending extension and the full supported set.
func (f *LoaderFactory) Create(path string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	ctor, ok := loaderConstructors[ext]
	if !ok {
		err := &UnsupportedFormatError{Extension: ext, Supported: SupportedExtensions()}
		f.logger.Error("unsupported document format",
			zap.String("path", path),
			zap.String("extension", ext),
			zap.Strings("supported", err.Supported))
		return nil, err
	}
	return ctor(path), nil
}

// IsSupported reports whether a loader is registered for the path's extension.
func (f *LoaderFactory) IsSupported(path string) bool {
	_, ok := loaderConstructors[strings.ToLower(filepath.Ext(path))]
	return ok
}

// SupportedExtensions returns every registered extension, sorted.
func (f *LoaderFactory) SupportedExtensions() []string {
	return SupportedExtensions()
}
