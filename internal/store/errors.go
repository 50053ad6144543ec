package store

import (
	"errors"
	"strings"
)

// ErrNotFound reports that a lookup by identifier matched no document.
var ErrNotFound = errors.New("not found")

// ErrConflict reports that a uniqueness pre-check matched an existing
// document (duplicate name/slug or name/email).
var ErrConflict = errors.New("already exists")

// ValidationError collects every field constraint violated by a create
// request. Checks are not fail-fast; all problems are reported together.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "\n")
}
