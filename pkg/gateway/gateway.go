package gateway

import (
	"context"
	"errors"
	"os"
	"time"

	"gocloud.dev/gcerrors"
)

// Entry is one row of a paginated listing.
type Entry struct {
	// Name is the full object name including any bucket prefix.
	Name string
	// IsDir marks synthetic directory entries some backends return.
	IsDir bool
	// Updated is the last modification time reported by the backend.
	Updated time.Time
	// Size is the object size in bytes.
	Size int64
}

// ObjectInfo holds the metadata of a single object.
type ObjectInfo struct {
	Name    string
	Updated time.Time
	Size    int64
}

// WriteOptions carries optional attributes for a write.
type WriteOptions struct {
	ContentType string
	Metadata    map[string]string
}

// ObjectStore defines the contract for object store backends.
// Implementations must be safe for concurrent use.
type ObjectStore interface {
	// ListPage returns one page of entries under the given prefix.
	// Pass a nil pageToken for the first page; a nil or empty next token
	// marks the final page.
	ListPage(ctx context.Context, prefix string, pageToken []byte, pageSize int) (entries []Entry, nextPageToken []byte, err error)

	// Info returns the metadata for the given object name.
	// Returns os.ErrNotExist if the object does not exist.
	Info(ctx context.Context, name string) (ObjectInfo, error)

	// Read retrieves the full content of the given object.
	// Returns os.ErrNotExist if the object does not exist.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write stores data under the given object name, replacing any
	// previous content (last writer wins).
	Write(ctx context.Context, name string, data []byte, opts *WriteOptions) error

	// Delete removes the given object. Deleting an absent object is not
	// an error; the returned bool reports whether an object was actually
	// removed.
	Delete(ctx context.Context, name string) (bool, error)

	// Close releases any resources held by the backend.
	Close() error
}

// transientError marks a failure that is expected to resolve on retry.
type transientError struct {
	err error
}

func (e *transientError) Error() string {
	return e.err.Error()
}

func (e *transientError) Unwrap() error {
	return e.err
}

// MarkTransient wraps err so that IsTransient reports true for it.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err is worth retrying. Backend overload
// conditions (the 502/503/504 equivalents) are transient; a not-found is a
// definitive outcome and never is.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var te *transientError
	if errors.As(err, &te) {
		return true
	}
	switch gcerrors.Code(err) {
	case gcerrors.Internal, gcerrors.ResourceExhausted:
		return true
	default:
		return false
	}
}

// IsNotFound reports whether err marks a definitively absent object.
func IsNotFound(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
