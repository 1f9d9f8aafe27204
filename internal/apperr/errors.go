// Package apperr defines the sentinel errors shared across the ingestion
// pipeline and its consumers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedFrontMatter = errors.New("malformed front matter")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidDate          = errors.New("invalid date")
	ErrDuplicateIdentity    = errors.New("duplicate identity")
	ErrNotFound             = errors.New("not found")
)

// ParseError ties an ingestion failure to the content that caused it.
// Path is relative to the content root; Offset is the 0-based ordinal of
// the sub-document within the file.
type ParseError struct {
	Path   string
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s#%d: %v", e.Path, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError wraps err with the originating path and sub-document offset.
func NewParseError(path string, offset int, err error) *ParseError {
	return &ParseError{Path: path, Offset: offset, Err: err}
}
