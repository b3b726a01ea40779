package table

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidInput is returned when a request is malformed: empty path,
	// empty or non-positive column list, empty batch id.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a file, sheet, table or batch does not exist
	// or produced no records.
	ErrNotFound = errors.New("not found")
)

// ReadError wraps an unexpected failure while reading a source.
type ReadError struct {
	// Source is the file name (without directory) or database target.
	Source string

	// Category is the Go type of the underlying error.
	Category string

	Err error
}

// NewReadError wraps err for the given source. Paths are reduced to their
// base name.
func NewReadError(source string, err error) *ReadError {
	return &ReadError{
		Source:   filepath.Base(source),
		Category: fmt.Sprintf("%T", errors.Cause(err)),
		Err:      err,
	}
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s (%s): %v", e.Source, e.Category, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
