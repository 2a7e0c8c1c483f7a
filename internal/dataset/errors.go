package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported indicates a file extension no reader handles.
var ErrUnsupported = errors.New("unsupported file format")

// ErrNoFile indicates the upload source was selected without a file.
var ErrNoFile = errors.New("no file uploaded")

// LoadError indicates a file could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("error loading file: %v", e.Err)
	}
	return fmt.Sprintf("error loading file %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// DecodeError indicates none of the candidate text encodings could decode a CSV file.
type DecodeError struct {
	Path  string
	Tried []string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unable to decode CSV file %s with common encodings (%s)", e.Path, strings.Join(e.Tried, ", "))
}

// ColumnNotFoundError indicates a named column does not exist.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column '%s' not found in data", e.Column)
}

// NonNumericColumnError indicates an operation needed a numeric column.
type NonNumericColumnError struct {
	Column string
}

func (e *NonNumericColumnError) Error() string {
	return fmt.Sprintf("selected column '%s' is not numeric", e.Column)
}
