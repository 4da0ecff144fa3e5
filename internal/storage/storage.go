// Package storage is a key-addressed, write-once blob store for song
// artifacts. Keys are opaque; the kind prefix only partitions files on
// disk.
package storage

import (
	"context"
	"errors"
	"io"
)

// Kind partitions artifacts on disk. It never participates in lookups;
// the full key does.
type Kind string

const (
	KindAudio Kind = "audio"
	KindImage Kind = "images"
	KindChart Kind = "charts"
)

// ErrNotFound is returned when a key has no stored artifact.
var ErrNotFound = errors.New("artifact not found")

// Store persists artifacts under fresh opaque keys. Keys are never
// reused and stored artifacts are never updated in place.
type Store interface {
	// Put writes data under a freshly generated key and returns it.
	Put(ctx context.Context, kind Kind, data []byte) (string, error)
	// Open returns a reader for the artifact under key.
	Open(key string) (io.ReadCloser, error)
}
