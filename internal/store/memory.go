package store

import (
	"fmt"
	"sync"
)

// MemoryStore keeps values in memory. A positive quota caps the total
// number of bytes across all keys and values, like a browser storage quota.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	quota  int
	closed bool
}

// NewMemoryStore creates an empty MemoryStore. quota <= 0 means unlimited.
func NewMemoryStore(quota int) *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
		quota:  quota,
	}
}

// Get returns the value stored under key.
func (m *MemoryStore) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.values[key]
	return v, ok, nil
}

// Set writes value under key. Returns ErrQuotaExceeded without modifying
// the store if the write would push usage past the quota.
func (m *MemoryStore) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if m.quota > 0 {
		used := m.usageExcluding(key) + len(key) + len(value)
		if used > m.quota {
			return fmt.Errorf("%w: %d bytes (quota %d)", ErrQuotaExceeded, used, m.quota)
		}
	}

	m.values[key] = value
	return nil
}

// Close marks the store closed; later calls return ErrClosed.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// usageExcluding sums the bytes of every entry except key. Caller holds mu.
func (m *MemoryStore) usageExcluding(key string) int {
	total := 0
	for k, v := range m.values {
		if k == key {
			continue
		}
		total += len(k) + len(v)
	}
	return total
}

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)
