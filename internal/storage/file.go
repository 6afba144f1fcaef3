package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File stores the record as a single file on the local filesystem.
// Writes go to a temp file in the same directory which is then renamed
// over the target, so readers never observe a partial payload.
type File struct {
	mu   sync.RWMutex
	path string
}

// NewFile returns a file-backed record, creating the parent directory if needed.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("file record: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("file record: create dir: %w", err)
	}
	return &File{path: path}, nil
}

func (f *File) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("file record: read: %w", err)
	}
	return data, nil
}

func (f *File) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("file record: create temp: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file record: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file record: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file record: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("file record: rename: %w", err)
	}
	return nil
}

func (f *File) Driver() string { return "file" }

func (f *File) Close() error { return nil }
