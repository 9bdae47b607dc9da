// Package objectstore implements C1: keyed blob storage with byte and
// streaming variants. The filesystem implementation joins keys under a
// configured root directory created on startup.
package objectstore

import (
	"context"
	"io"
)

// SeekableReader is a closeable, seekable byte reader over a stored object.
// Seek semantics are absolute-from-start (io.SeekStart) and
// relative-to-current (io.SeekCurrent), matching the Stream Reader's
// contract.
type SeekableReader interface {
	io.Reader
	io.Seeker
	io.Closer
}

// Store is the object store contract (C1).
type Store interface {
	// Get returns the full contents stored under key, or a
	// *errors.NotFoundError if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put overwrites any existing object at key. Writes are visible to a
	// subsequent Get in the same process.
	Put(ctx context.Context, key string, data []byte) error

	// PutStream consumes r until EOF and stores the result under key. On any
	// read error it aborts, leaving either no object or the prior object —
	// never a partial one.
	PutStream(ctx context.Context, key string, r io.Reader) error

	// GetStream returns a seekable reader over the object stored at key.
	GetStream(ctx context.Context, key string) (SeekableReader, error)

	// Delete removes key. Absent keys are a silent success.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)
}
