package mock

import (
	"context"
	"sync"

	"github.com/jon4hz/vitrine/internal/docstore"
)

var _ docstore.Store = (*MockStore)(nil)

// MockStore is an in-memory implementation of docstore.Store for testing.
type MockStore struct {
	mu   sync.RWMutex
	docs map[docstore.Key][]byte

	// Error simulation
	GetError error
	PutError error

	// Puts counts successful writes per key.
	Puts map[docstore.Key]int
}

// NewMockStore creates a new MockStore instance.
func NewMockStore() *MockStore {
	return &MockStore{
		docs: make(map[docstore.Key][]byte),
		Puts: make(map[docstore.Key]int),
	}
}

// Get returns a copy of the stored document.
func (m *MockStore) Get(_ context.Context, key docstore.Key) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	data, ok := m.docs[key]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Put stores a copy of data.
func (m *MockStore) Put(_ context.Context, key docstore.Key, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PutError != nil {
		return m.PutError
	}
	m.docs[key] = append([]byte(nil), data...)
	m.Puts[key]++
	return nil
}

// Close is a no-op.
func (m *MockStore) Close() error {
	return nil
}

// Raw returns the stored bytes for key without going through Get.
func (m *MockStore) Raw(key docstore.Key) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.docs[key]
	return data, ok
}
