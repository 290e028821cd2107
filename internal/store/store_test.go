package store

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Shared contract - both implementations must behave the same way
// ---------------------------------------------------------------------------

func openStores(t *testing.T) map[string]Store {
	t.Helper()

	bs, err := OpenBolt(filepath.Join(t.TempDir(), "studio.db"))
	if err != nil {
		t.Fatalf("OpenBolt() error = %v", err)
	}
	t.Cleanup(func() { _ = bs.Close() })

	return map[string]Store{
		"bolt":   bs,
		"memory": NewMemoryStore(0),
	}
}

func TestStore_Contract(t *testing.T) {
	t.Parallel()

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("missing key reports not ok", func(t *testing.T) {
				v, ok, err := s.Get("absent")
				if err != nil {
					t.Fatalf("Get() error = %v", err)
				}
				if ok || v != "" {
					t.Errorf("Get(absent) = (%q, %v), want (\"\", false)", v, ok)
				}
			})

			t.Run("round trip preserves bytes", func(t *testing.T) {
				want := "# Title\r\n\n  trailing  \x00 ünïcödé"
				if err := s.Set(KeyDocument, want); err != nil {
					t.Fatalf("Set() error = %v", err)
				}
				got, ok, err := s.Get(KeyDocument)
				if err != nil || !ok {
					t.Fatalf("Get() = (_, %v, %v)", ok, err)
				}
				if got != want {
					t.Errorf("Get() = %q, want %q", got, want)
				}
			})

			t.Run("empty value is distinct from missing", func(t *testing.T) {
				if err := s.Set(KeyTheme, ""); err != nil {
					t.Fatalf("Set() error = %v", err)
				}
				_, ok, err := s.Get(KeyTheme)
				if err != nil || !ok {
					t.Errorf("Get() ok = %v, err = %v, want ok", ok, err)
				}
			})

			t.Run("empty key rejected", func(t *testing.T) {
				if err := s.Set("", "x"); !errors.Is(err, ErrEmptyKey) {
					t.Errorf("Set(\"\") error = %v, want ErrEmptyKey", err)
				}
				if _, _, err := s.Get(""); !errors.Is(err, ErrEmptyKey) {
					t.Errorf("Get(\"\") error = %v, want ErrEmptyKey", err)
				}
			})
		})
	}
}

// ---------------------------------------------------------------------------
// BoltStore - persistence across reopen
// ---------------------------------------------------------------------------

func TestBoltStore_SurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "studio.db")

	s, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt() error = %v", err)
	}
	if err := s.Set(KeyTheme, "dark"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt() reopen error = %v", err)
	}
	defer reopened.Close()

	got, ok, err := reopened.Get(KeyTheme)
	if err != nil || !ok || got != "dark" {
		t.Errorf("Get() after reopen = (%q, %v, %v), want (\"dark\", true, nil)", got, ok, err)
	}
	if reopened.Path() != path {
		t.Errorf("Path() = %q, want %q", reopened.Path(), path)
	}
}

func TestOpenBolt_InvalidPath(t *testing.T) {
	t.Parallel()

	_, err := OpenBolt(filepath.Join(t.TempDir(), "missing-dir", "studio.db"))
	if !errors.Is(err, ErrOpen) {
		t.Errorf("OpenBolt() error = %v, want ErrOpen", err)
	}
}

func TestOpenBolt_Locked(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "studio.db")
	s, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt() error = %v", err)
	}
	defer func() { _ = s.Close() }()

	_, err = OpenBolt(path)
	if !errors.Is(err, ErrLocked) {
		t.Errorf("second OpenBolt() error = %v, want ErrLocked", err)
	}
}

// ---------------------------------------------------------------------------
// MemoryStore - quota and close
// ---------------------------------------------------------------------------

func TestMemoryStore_Quota(t *testing.T) {
	t.Parallel()

	m := NewMemoryStore(len(KeyDocument) + 10)

	if err := m.Set(KeyDocument, "0123456789"); err != nil {
		t.Fatalf("Set() within quota error = %v", err)
	}

	err := m.Set(KeyDocument, strings.Repeat("x", 11))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("Set() over quota error = %v, want ErrQuotaExceeded", err)
	}

	got, _, _ := m.Get(KeyDocument)
	if got != "0123456789" {
		t.Errorf("value after failed Set = %q, want previous value kept", got)
	}
}

func TestMemoryStore_QuotaCountsOtherKeys(t *testing.T) {
	t.Parallel()

	m := NewMemoryStore(20)
	if err := m.Set("a", "123456789"); err != nil {
		t.Fatalf("Set(a) error = %v", err)
	}
	if err := m.Set("b", "123456789"); err != nil {
		t.Fatalf("Set(b) error = %v", err)
	}
	if err := m.Set("c", "1"); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Set(c) error = %v, want ErrQuotaExceeded", err)
	}
}

func TestMemoryStore_Closed(t *testing.T) {
	t.Parallel()

	m := NewMemoryStore(0)
	_ = m.Close()

	if err := m.Set("k", "v"); !errors.Is(err, ErrClosed) {
		t.Errorf("Set() after Close error = %v, want ErrClosed", err)
	}
	if _, _, err := m.Get("k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get() after Close error = %v, want ErrClosed", err)
	}
}
