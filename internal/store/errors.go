package store

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrStorage marks a write that could not be serialized or persisted.
	// The cached value still advances.
	ErrStorage = errors.New("storage write failed")
	// ErrParse marks a persisted or received value that could not be
	// decoded. The store keeps or falls back to a known value.
	ErrParse = errors.New("stored value could not be parsed")
)

// Error describes a failure the store recovered from. It matches both its
// Kind and the underlying cause with errors.Is.
type Error struct {
	Kind error
	Key  string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %q: %s: %v: %v", e.Key, e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
