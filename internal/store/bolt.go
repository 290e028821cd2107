package store

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// bucketStudio holds every studio key.
const bucketStudio = "studio"

// openTimeout bounds how long Open waits for the file lock held by another process.
const openTimeout = time.Second

// BoltStore persists values in a bbolt database file.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the database at path and initializes the bucket.
// Returns ErrLocked if another process holds the file, ErrOpen for other
// failures.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if errors.Is(err, bolt.ErrTimeout) {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketStudio))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: initializing bucket: %v", ErrOpen, err)
	}

	return &BoltStore{db: db}, nil
}

// Get returns the value stored under key.
func (s *BoltStore) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	var (
		value string
		ok    bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketStudio))
		if v := b.Get([]byte(key)); v != nil {
			// v is only valid inside the transaction.
			value = string(v)
			ok = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	return value, ok, nil
}

// Set writes value under key.
func (s *BoltStore) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketStudio))
		return b.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

// Close closes the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *BoltStore) Path() string {
	return s.db.Path()
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)
