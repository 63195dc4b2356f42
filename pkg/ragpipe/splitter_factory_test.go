package ragpipe

import (
	"errors"
	"testing"
)

func TestSplitterFactory_Create_InvalidChunkSize(t *testing.T) {
	factory := NewSplitterFactory(nil)

	for _, size := range []int{0, -1, -512} {
		_, err := factory.Create(SplitterTypeToken, size, 0)
		var ipErr *InvalidParameterError
		if !errors.As(err, &ipErr) {
			t.Fatalf("Create(size=%d) error = %v, want *InvalidParameterError", size, err)
		}
		if ipErr.Parameter != "chunk_size" {
			t.Errorf("Create(size=%d) parameter = %q, want chunk_size", size, ipErr.Parameter)
		}
	}
}

func TestSplitterFactory_Create_InvalidOverlap(t *testing.T) {
	factory := NewSplitterFactory(nil)

	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{name: "negative overlap", size: 512, overlap: -1},
		{name: "overlap equals size", size: 10, overlap: 10},
		{name: "overlap exceeds size", size: 10, overlap: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := factory.Create(SplitterTypeToken, tt.size, tt.overlap)
			var ipErr *InvalidParameterError
			if !errors.As(err, &ipErr) {
				t.Fatalf("error = %v, want *InvalidParameterError", err)
			}
			if ipErr.Parameter != "chunk_overlap" {
				t.Errorf("parameter = %q, want chunk_overlap", ipErr.Parameter)
			}
		})
	}
}

func TestSplitterFactory_Create_UnsupportedType(t *testing.T) {
	factory := NewSplitterFactory(nil)

	_, err := factory.Create("sentence", 512, 100)
	var ufErr *UnsupportedFormatError
	if !errors.As(err, &ufErr) {
		t.Fatalf("error = %v, want *UnsupportedFormatError", err)
	}
	if ufErr.Extension != "sentence" {
		t.Errorf("error type name = %q, want %q", ufErr.Extension, "sentence")
	}
	if len(ufErr.Supported) == 0 {
		t.Error("error carries no supported types")
	}
}

func TestSplitterFactory_Create_ParameterValidationPrecedesTypeCheck(t *testing.T) {
	factory := NewSplitterFactory(nil)

	// Both the parameters and the type are invalid: the parameter error wins.
	_, err := factory.Create("sentence", 0, 0)
	var ipErr *InvalidParameterError
	if !errors.As(err, &ipErr) {
		t.Fatalf("error = %v, want *InvalidParameterError before type lookup", err)
	}
}

func TestSplitterFactory_Create_Token(t *testing.T) {
	factory := NewSplitterFactory(nil)

	splitter, err := factory.Create(SplitterTypeToken, DefaultChunkSize, DefaultChunkOverlap)
	if err != nil {
		t.Skipf("token encoding unavailable: %v", err)
	}
	if _, ok := splitter.(*TokenSplitter); !ok {
		t.Errorf("Create returned %T, want *TokenSplitter", splitter)
	}
}
