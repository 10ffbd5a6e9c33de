package storage

import (
	"context"
	"errors"
)

// ErrBucketNotFound reports that the destination bucket does not exist.
var ErrBucketNotFound = errors.New("bucket not found")

// ErrObjectNotFound reports that a requested object key does not exist.
// Callers use errors.Is to distinguish an absent checkpoint (the
// expected first-run condition) from a real read failure.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the destination store the export job writes to.
type ObjectStore interface {
	// EnsureBucket verifies the destination bucket exists and is
	// accessible. A missing bucket yields ErrBucketNotFound.
	EnsureBucket(ctx context.Context) error

	// Get reads an object body. Absent keys yield ErrObjectNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put writes an object body at key, overwriting any existing object.
	Put(ctx context.Context, key string, body []byte) error
}
