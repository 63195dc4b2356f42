package ragpipe

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for empty pipeline stages.
var (
	// ErrEmptyDocument is returned when a parser yields zero records.
	ErrEmptyDocument = errors.New("document produced no records")

	// ErrEmptyInput is returned when the splitter receives zero records.
	ErrEmptyInput = errors.New("no records to split")
)

// FileNotFoundError indicates the source path does not exist.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// UnsupportedFormatError indicates an extension or splitter type outside the
// registered strategy tables. It carries the full supported set so callers
// can report what would have worked.
type UnsupportedFormatError struct {
	Extension string
	Supported []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q (supported: %s)",
		e.Extension, strings.Join(e.Supported, ", "))
}

// InvalidParameterError indicates a splitter configuration value outside its
// allowed bounds. Construction fails rather than clamping.
type InvalidParameterError struct {
	Parameter string
	Value     int
	Reason    string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s %d: %s", e.Parameter, e.Value, e.Reason)
}
