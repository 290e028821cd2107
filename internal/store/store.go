// Package store persists studio state as raw string values under fixed keys.
//
// Two implementations are provided:
//
//	Store (interface)
//	    │
//	    ├── BoltStore    - bbolt database file, survives restarts
//	    └── MemoryStore  - in-process map with an optional byte quota
//
// Values are opaque strings; callers own their encoding.
package store

import "errors"

// Keys used by the studio.
const (
	KeyDocument = "markdown-studio-content"
	KeyTheme    = "markdown-studio-theme"
)

// Sentinel errors for store operations.
var (
	ErrQuotaExceeded = errors.New("store quota exceeded")
	ErrClosed        = errors.New("store is closed")
	ErrEmptyKey      = errors.New("store key cannot be empty")
	ErrOpen          = errors.New("failed to open store")
	ErrLocked        = errors.New("store is locked by another process")
)

// Store is a key-value string store scoped to one studio.
type Store interface {
	// Get returns the value for key. ok is false when the key was never set.
	Get(key string) (value string, ok bool, err error)

	// Set writes value under key, replacing any previous value.
	Set(key, value string) error

	// Close releases underlying resources.
	Close() error
}
