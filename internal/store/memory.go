package store

import (
	"context"
	"sync"
)

// Memory is an in-process KV for tests and the seed/state commands when no
// database is wanted. Blobs are copied on the way in and out.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, namespace string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.blobs[namespace]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

func (m *Memory) Put(ctx context.Context, namespace string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	in := make([]byte, len(blob))
	copy(in, blob)
	m.blobs[namespace] = in
	return nil
}
