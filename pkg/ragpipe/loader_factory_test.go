package ragpipe

import (
	"errors"
	"sort"
	"testing"
)

func TestLoaderFactory_Create_SupportedExtensions(t *testing.T) {
	factory := NewLoaderFactory(nil)

	for _, ext := range SupportedExtensions() {
		t.Run(ext, func(t *testing.T) {
			path := "document" + ext
			if !factory.IsSupported(path) {
				t.Errorf("IsSupported(%q) = false, want true", path)
			}

			loader, err := factory.Create(path)
			if err != nil {
				t.Fatalf("Create(%q) returned error: %v", path, err)
			}
			if loader == nil {
				t.Errorf("Create(%q) returned nil loader", path)
			}
		})
	}
}

func TestLoaderFactory_Create_CaseInsensitive(t *testing.T) {
	factory := NewLoaderFactory(nil)

	loader, err := factory.Create("REPORT.PDF")
	if err != nil {
		t.Fatalf("Create with uppercase extension returned error: %v", err)
	}
	if _, ok := loader.(*PDFLoader); !ok {
		t.Errorf("Create returned %T, want *PDFLoader", loader)
	}
}

func TestLoaderFactory_Create_Unsupported(t *testing.T) {
	factory := NewLoaderFactory(nil)

	tests := []struct {
		name string
		path string
		ext  string
	}{
		{name: "executable", path: "virus.exe", ext: ".exe"},
		{name: "no extension", path: "README", ext: ""},
		{name: "archive", path: "backup.zip", ext: ".zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if factory.IsSupported(tt.path) {
				t.Errorf("IsSupported(%q) = true, want false", tt.path)
			}

			_, err := factory.Create(tt.path)
			if err == nil {
				t.Fatalf("Create(%q) succeeded, want UnsupportedFormatError", tt.path)
			}

			var ufErr *UnsupportedFormatError
			if !errors.As(err, &ufErr) {
				t.Fatalf("Create(%q) error = %T, want *UnsupportedFormatError", tt.path, err)
			}
			if ufErr.Extension != tt.ext {
				t.Errorf("error extension = %q, want %q", ufErr.Extension, tt.ext)
			}
			if len(ufErr.Supported) != len(SupportedExtensions()) {
				t.Errorf("error supported list has %d entries, want %d",
					len(ufErr.Supported), len(SupportedExtensions()))
			}
		})
	}
}

func TestSupportedExtensions_Sorted(t *testing.T) {
	exts := SupportedExtensions()
	if len(exts) == 0 {
		t.Fatal("SupportedExtensions returned no entries")
	}
	if !sort.StringsAreSorted(exts) {
		t.Errorf("SupportedExtensions not sorted: %v", exts)
	}

	// Every spec format must be registered.
	for _, want := range []string{".pdf", ".txt", ".md", ".docx", ".csv", ".json"} {
		found := false
		for _, ext := range exts {
			if ext == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("SupportedExtensions missing %q", want)
		}
	}
}
