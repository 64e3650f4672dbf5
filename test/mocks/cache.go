// Package mocks provides hand-written test doubles shared across packages.
package mocks

import (
	"context"
	"sync"
	"time"
)

// MockCache is an in-memory implementation of cache.Cache for testing.
type MockCache struct {
	mu       sync.Mutex
	data     map[string]string
	GetErr   error
	SetErr   error
	Gets     int
	Sets     int
	Deletes  int
	Unhealth error
}

// NewMockCache creates an empty mock cache.
func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string]string)}
}

// Get returns the stored value, or "" when the key is absent.
func (m *MockCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if m.GetErr != nil {
		return "", m.GetErr
	}
	return m.data[key], nil
}

// Set stores a value; TTL is ignored.
func (m *MockCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = value
	return nil
}

// Invalidate removes keys.
func (m *MockCache) Invalidate(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			delete(m.data, key)
			m.Deletes++
		}
	}
	return nil
}

// Health reports the configured health error.
func (m *MockCache) Health(_ context.Context) error {
	return m.Unhealth
}

// Close is a no-op.
func (m *MockCache) Close() error {
	return nil
}

// Stored returns the current value for a key without counting a Get.
func (m *MockCache) Stored(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}
