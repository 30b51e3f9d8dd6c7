package storage

import (
	"context"
	"sync"
)

// Memory is an in-process Medium. With a quota set it rejects writes that
// would grow the total size of keys and values past the limit.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
	size    int
	quota   int
}

type MemoryOption func(*Memory)

// WithQuota limits the total size in bytes of stored keys and values.
// Zero or negative disables the limit.
func WithQuota(bytes int) MemoryOption {
	return func(m *Memory) {
		m.quota = bytes
	}
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{entries: make(map[string]string)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, raw string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	size := m.size + len(raw)
	if prev, ok := m.entries[key]; ok {
		size -= len(prev)
	} else {
		size += len(key)
	}
	if m.quota > 0 && size > m.quota {
		return ErrQuotaExceeded
	}
	m.entries[key] = raw
	m.size = size
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.entries[key]; ok {
		m.size -= len(key) + len(prev)
		delete(m.entries, key)
	}
	return nil
}
