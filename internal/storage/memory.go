package storage

import (
	"context"
	"sync"
)

// Memory keeps the record in process memory. Nothing survives a restart;
// use it for tests and demos.
type Memory struct {
	mu      sync.RWMutex
	data    []byte
	written bool
}

// NewMemory returns an empty in-memory record.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWith returns an in-memory record pre-filled with data.
func NewMemoryWith(data []byte) *Memory {
	m := &Memory{}
	m.data = append([]byte(nil), data...)
	m.written = true
	return m
}

func (m *Memory) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.written {
		return nil, ErrNotExist
	}
	return append([]byte(nil), m.data...), nil
}

func (m *Memory) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = append([]byte(nil), data...)
	m.written = true
	return nil
}

func (m *Memory) Driver() string { return "memory" }

func (m *Memory) Close() error { return nil }
