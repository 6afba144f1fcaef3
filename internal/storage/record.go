// Package storage holds the durable record the inventory is persisted to.
//
// A Record is a single named blob: the whole collection is read and
// written at once, the way a browser local-storage key would be.
package storage

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Read when nothing was ever written.
var ErrNotExist = errors.New("storage: record does not exist")

// Record is the persistence port of the inventory store.
type Record interface {
	// Read returns the last written payload, or ErrNotExist.
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the payload. It returns only once the data is durable.
	Write(ctx context.Context, data []byte) error
	// Driver names the backend, for logs and health output.
	Driver() string
	Close() error
}
