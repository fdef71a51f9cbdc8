package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/Veraticus/foco-financeiro/internal/common"
	"github.com/Veraticus/foco-financeiro/internal/service"
)

// MemoryStorage is an in-process KeyValueStore. Values do not survive the
// process; it backs tests and --ephemeral sessions.
type MemoryStorage struct {
	values map[string]string
	mu     sync.RWMutex
}

var _ service.KeyValueStore = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

// Get returns the value stored under key, or common.ErrNotFound.
func (m *MemoryStorage) Get(ctx context.Context, key string) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", common.ErrNotFound, key)
	}
	return value, nil
}

// Put stores value under key.
func (m *MemoryStorage) Put(ctx context.Context, key, value string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

// Delete removes key.
func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// Close is a no-op.
func (m *MemoryStorage) Close() error {
	return nil
}
