package autosave

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-mdstudio/internal/clock"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

type recordingSaver struct {
	mu     sync.Mutex
	writes []string
	err    error
}

func (r *recordingSaver) Set(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.writes = append(r.writes, key+"="+value)
	return nil
}

func (r *recordingSaver) setErr(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

func (r *recordingSaver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.writes)
}

func (r *recordingSaver) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.writes) == 0 {
		return ""
	}
	return r.writes[len(r.writes)-1]
}

// ---------------------------------------------------------------------------
// TestScheduler - debounce behavior
// ---------------------------------------------------------------------------

func TestScheduler_DebouncesToLastText(t *testing.T) {
	t.Parallel()

	clk := &clock.Manual{}
	saver := &recordingSaver{}
	s := New(saver, "doc", WithClock(clk))

	s.Schedule("a")
	clk.Advance(200 * time.Millisecond)
	s.Schedule("ab")
	clk.Advance(200 * time.Millisecond)
	s.Schedule("abc")

	if got := s.Status(); got != StatusSaving {
		t.Fatalf("Status() = %q, want %q", got, StatusSaving)
	}
	if saver.count() != 0 {
		t.Fatalf("saved %d times before quiet period elapsed", saver.count())
	}
	if got := clk.Pending(); got != 1 {
		t.Fatalf("active timers = %d, want 1", got)
	}

	clk.Advance(DefaultDelay)

	if saver.count() != 1 {
		t.Fatalf("writes = %d, want 1", saver.count())
	}
	if got := saver.last(); got != "doc=abc" {
		t.Errorf("last write = %q, want %q", got, "doc=abc")
	}
	if got := s.Status(); got != StatusSaved {
		t.Errorf("Status() = %q, want %q", got, StatusSaved)
	}
	if s.Pending() {
		t.Error("Pending() = true after save")
	}
}

func TestScheduler_CustomDelay(t *testing.T) {
	t.Parallel()

	clk := &clock.Manual{}
	saver := &recordingSaver{}
	s := New(saver, "doc", WithClock(clk), WithDelay(time.Second))

	s.Schedule("x")
	clk.Advance(DefaultDelay)
	if saver.count() != 0 {
		t.Fatal("saved before custom delay elapsed")
	}
	clk.Advance(time.Second)
	if saver.count() != 1 {
		t.Fatalf("writes = %d, want 1", saver.count())
	}
}

func TestScheduler_FailureNotRetried(t *testing.T) {
	t.Parallel()

	clk := &clock.Manual{}
	saver := &recordingSaver{err: errors.New("quota")}
	s := New(saver, "doc", WithClock(clk))

	s.Schedule("x")
	clk.Advance(DefaultDelay)

	if got := s.Status(); got != StatusFailed {
		t.Fatalf("Status() = %q, want %q", got, StatusFailed)
	}
	if got := clk.Pending(); got != 0 {
		t.Fatalf("active timers after failure = %d, want 0", got)
	}

	// Recovery only happens on the next change.
	saver.setErr(nil)
	clk.Advance(10 * DefaultDelay)
	if saver.count() != 0 {
		t.Fatal("failed save was retried without a change")
	}

	s.Schedule("y")
	clk.Advance(DefaultDelay)
	if got := s.Status(); got != StatusSaved {
		t.Errorf("Status() = %q, want %q", got, StatusSaved)
	}
	if got := saver.last(); got != "doc=y" {
		t.Errorf("last write = %q, want %q", got, "doc=y")
	}
}

// ---------------------------------------------------------------------------
// TestScheduler_Flush - immediate save
// ---------------------------------------------------------------------------

func TestScheduler_Flush(t *testing.T) {
	t.Parallel()

	t.Run("writes pending and cancels timer", func(t *testing.T) {
		t.Parallel()

		clk := &clock.Manual{}
		saver := &recordingSaver{}
		s := New(saver, "doc", WithClock(clk))

		s.Schedule("now")
		if err := s.Flush(); err != nil {
			t.Fatalf("Flush() error = %v", err)
		}
		if got := saver.last(); got != "doc=now" {
			t.Errorf("last write = %q, want %q", got, "doc=now")
		}
		if got := clk.Pending(); got != 0 {
			t.Errorf("active timers = %d, want 0", got)
		}

		clk.Advance(DefaultDelay)
		if saver.count() != 1 {
			t.Errorf("writes = %d, want 1 (timer must not save again)", saver.count())
		}
	})

	t.Run("nothing pending", func(t *testing.T) {
		t.Parallel()

		saver := &recordingSaver{}
		s := New(saver, "doc", WithClock(&clock.Manual{}))

		if err := s.Flush(); err != nil {
			t.Fatalf("Flush() error = %v", err)
		}
		if saver.count() != 0 {
			t.Errorf("writes = %d, want 0", saver.count())
		}
		if got := s.Status(); got != StatusIdle {
			t.Errorf("Status() = %q, want idle", got)
		}
	})

	t.Run("returns write error", func(t *testing.T) {
		t.Parallel()

		errDisk := errors.New("disk full")
		s := New(&recordingSaver{err: errDisk}, "doc", WithClock(&clock.Manual{}))

		s.Schedule("x")
		if err := s.Flush(); !errors.Is(err, errDisk) {
			t.Errorf("Flush() error = %v, want %v", err, errDisk)
		}
		if got := s.Status(); got != StatusFailed {
			t.Errorf("Status() = %q, want %q", got, StatusFailed)
		}
	})
}

func TestScheduler_Close(t *testing.T) {
	t.Parallel()

	clk := &clock.Manual{}
	saver := &recordingSaver{}
	s := New(saver, "doc", WithClock(clk))

	s.Schedule("final")
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := saver.last(); got != "doc=final" {
		t.Errorf("last write = %q, want %q", got, "doc=final")
	}

	s.Schedule("ignored")
	clk.Advance(DefaultDelay)
	if saver.count() != 1 {
		t.Errorf("writes = %d, want 1 after Close", saver.count())
	}
}

// ---------------------------------------------------------------------------
// TestScheduler_StatusHook - observable transitions
// ---------------------------------------------------------------------------

func TestScheduler_StatusHook(t *testing.T) {
	t.Parallel()

	clk := &clock.Manual{}
	saver := &recordingSaver{}

	var mu sync.Mutex
	var seen []Status
	var s *Scheduler
	s = New(saver, "doc", WithClock(clk), WithStatusHook(func(st Status) {
		// Reentrant call must not deadlock.
		_ = s.Status()
		mu.Lock()
		seen = append(seen, st)
		mu.Unlock()
	}))

	s.Schedule("a")
	s.Schedule("ab")
	clk.Advance(DefaultDelay)
	saver.setErr(errors.New("boom"))
	s.Schedule("abc")
	clk.Advance(DefaultDelay)

	want := []Status{StatusSaving, StatusSaved, StatusSaving, StatusFailed}
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != len(want) {
		t.Fatalf("transitions = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("transition[%d] = %q, want %q", i, seen[i], want[i])
		}
	}
}
