package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a caller-supplied value violates a precondition
	// (empty name or URL, unsafe path).
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when the referenced object does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPayloadTooLarge is returned when an upload exceeds the configured ceiling.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrStorage matches every *StorageError.
	ErrStorage = errors.New("storage error")
	// ErrLockContention is wrapped in a *StorageError when the URL list lock
	// could not be acquired in time.
	ErrLockContention = errors.New("lock contention")
)

// StorageError carries an underlying I/O failure together with the operation
// and the resource it happened on.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is reports true for ErrStorage so callers can branch on the kind without a type assertion.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// NewStorageError wraps err, returning nil when err is nil.
func NewStorageError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Path: path, Err: err}
}

// InvalidInput returns an error matching ErrInvalidInput with a reason attached.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
