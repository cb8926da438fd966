package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRequest is an error thrown when an input is malformed or out of range
var ErrInvalidRequest = errors.New("invalid request")

// ErrQuotaExceeded is an error thrown when an owner exceeds a resource limit
var ErrQuotaExceeded = errors.New("quota exceeded")

// ErrNotFound is an error thrown when an entity is unknown or expired
var ErrNotFound = errors.New("not found")

// ErrSessionNotFound is an error thrown when upload session is not found
var ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)

// ErrFileNotFound is an error thrown when file is not found
var ErrFileNotFound = fmt.Errorf("file %w", ErrNotFound)

// ErrForbidden is an error thrown when caller is not allowed to access a resource
var ErrForbidden = errors.New("forbidden")

// ErrUnauthenticated is an error thrown when an operation needs an identity and none was given
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrInvalidChunk is an error thrown when a chunk index or payload is invalid
var ErrInvalidChunk = errors.New("invalid chunk")

// ErrIncomplete is an error thrown when a session still misses chunks
var ErrIncomplete = errors.New("incomplete upload")

// ErrSizeMismatch is an error thrown when sizes mismatch
var ErrSizeMismatch = errors.New("size mismatch")

// ErrAlreadyCompleted is an error thrown when a session was already completed
var ErrAlreadyCompleted = errors.New("already completed")

// ErrStorageFailure is an error thrown when durable bytes cannot be written or read
var ErrStorageFailure = errors.New("storage failure")

// ErrAlreadyExists is an error thrown when entity already exists
var ErrAlreadyExists = errors.New("already exists")

// IncompleteError names every chunk index a session is still missing
type IncompleteError struct {
	Missing []int
}

func (e *IncompleteError) Error() string {
	const shown = 16

	parts := make([]string, 0, shown)
	for i, idx := range e.Missing {
		if i == shown {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, strconv.Itoa(idx))
	}

	return fmt.Sprintf("%s: %d missing chunks [%s]", ErrIncomplete, len(e.Missing), strings.Join(parts, " "))
}

func (e *IncompleteError) Unwrap() error {
	return ErrIncomplete
}

// Kind is the machine readable class of an error
type Kind string

const (
	KindInvalidRequest   Kind = "InvalidRequest"
	KindQuotaExceeded    Kind = "QuotaExceeded"
	KindNotFound         Kind = "NotFound"
	KindForbidden        Kind = "Forbidden"
	KindUnauthenticated  Kind = "Unauthenticated"
	KindInvalidChunk     Kind = "InvalidChunk"
	KindIncomplete       Kind = "Incomplete"
	KindSizeMismatch     Kind = "SizeMismatch"
	KindAlreadyCompleted Kind = "AlreadyCompleted"
	KindStorageFailure   Kind = "StorageFailure"
	KindInternal         Kind = "Internal"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidRequest, KindInvalidRequest},
	{ErrQuotaExceeded, KindQuotaExceeded},
	{ErrNotFound, KindNotFound},
	{ErrForbidden, KindForbidden},
	{ErrUnauthenticated, KindUnauthenticated},
	{ErrInvalidChunk, KindInvalidChunk},
	{ErrIncomplete, KindIncomplete},
	{ErrSizeMismatch, KindSizeMismatch},
	{ErrAlreadyCompleted, KindAlreadyCompleted},
	{ErrStorageFailure, KindStorageFailure},
}

// KindOf returns the kind of the first known sentinel err wraps, KindInternal otherwise
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
