package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown source or sort field.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrStoreUnavailable indicates the local index cannot be opened or created.
	ErrStoreUnavailable = errors.New("index store unavailable")

	// ErrRebuildInProgress indicates another process holds the index writer lock.
	ErrRebuildInProgress = errors.New("index rebuild in progress")
)

// FetchError reports a failed page request: transport failure, non-success
// HTTP status, or a payload the adapter could not decode.
type FetchError struct {
	Source SourceName
	Op     string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError checks if err is or wraps a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// NormalizationError reports a raw record that could not be coerced into a Dataset.
type NormalizationError struct {
	Source SourceName
	ID     string
	Reason string
}

func (e *NormalizationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: cannot normalise record: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("%s: cannot normalise record %s: %s", e.Source, e.ID, e.Reason)
}

// StoreUnavailableError reports that the index file could not be opened or created.
type StoreUnavailableError struct {
	Path string
	Err  error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("index store unavailable at %s: %v", e.Path, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrStoreUnavailable) match.
func (e *StoreUnavailableError) Is(target error) bool {
	return target == ErrStoreUnavailable
}
