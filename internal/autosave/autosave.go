// Package autosave debounces document writes to a persistent store.
//
// Every change marks the document as pending and restarts a timer; only the
// last text seen before the timer fires is written. A failed write is
// reported through the status and not retried until the next change.
package autosave

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alnah/go-mdstudio/internal/clock"
)

// DefaultDelay is the quiet period after the last change before saving.
const DefaultDelay = 400 * time.Millisecond

// Status is the user-visible save indicator.
type Status string

// Save indicator values.
const (
	StatusIdle   Status = ""
	StatusSaving Status = "Saving…"
	StatusSaved  Status = "Saved"
	StatusFailed Status = "Save failed"
)

// Saver is the write side of a key-value store.
type Saver interface {
	Set(key, value string) error
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDelay sets the debounce delay. Non-positive values are ignored.
func WithDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithClock sets the timer source.
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger used for write failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStatusHook registers fn to be called after every status change.
// fn runs without the scheduler lock held and may call back into it.
func WithStatusHook(fn func(Status)) Option {
	return func(s *Scheduler) {
		s.onStatus = fn
	}
}

// Scheduler debounces writes of a single key. It is safe for concurrent use.
type Scheduler struct {
	saver    Saver
	key      string
	delay    time.Duration
	clock    clock.Clock
	logger   *slog.Logger
	onStatus func(Status)

	mu      sync.Mutex
	timer   clock.Timer
	gen     uint64
	pending string
	dirty   bool
	status  Status
	closed  bool
}

// New creates a Scheduler writing under key to saver.
func New(saver Saver, key string, opts ...Option) *Scheduler {
	s := &Scheduler{
		saver:  saver,
		key:    key,
		delay:  DefaultDelay,
		clock:  clock.Real{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule records text as the latest document and restarts the timer.
// Calls after Close are ignored.
func (s *Scheduler) Schedule(text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stopTimerLocked()
	s.gen++
	gen := s.gen
	s.pending = text
	s.dirty = true
	changed := s.setStatusLocked(StatusSaving)
	s.timer = s.clock.AfterFunc(s.delay, func() { s.fire(gen) })
	s.mu.Unlock()

	s.notify(StatusSaving, changed)
}

// Flush cancels the timer and writes any pending text immediately.
// It returns the write error, or nil when nothing was pending.
func (s *Scheduler) Flush() error {
	s.mu.Lock()
	s.stopTimerLocked()
	st, changed, err := s.saveLocked()
	s.mu.Unlock()

	s.notify(st, changed)
	return err
}

// Close flushes pending text and stops accepting changes.
func (s *Scheduler) Close() error {
	err := s.Flush()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return err
}

// Status returns the current save indicator.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Pending reports whether a change has not been written yet.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	st, changed, _ := s.saveLocked()
	s.mu.Unlock()

	s.notify(st, changed)
}

// saveLocked writes the pending text and reports the resulting status and
// whether it changed.
func (s *Scheduler) saveLocked() (Status, bool, error) {
	if !s.dirty {
		return s.status, false, nil
	}
	s.dirty = false

	if err := s.saver.Set(s.key, s.pending); err != nil {
		s.logger.Warn("autosave failed", "key", s.key, "error", err)
		return StatusFailed, s.setStatusLocked(StatusFailed), err
	}
	s.logger.Debug("autosaved", "key", s.key, "bytes", len(s.pending))
	return StatusSaved, s.setStatusLocked(StatusSaved), nil
}

func (s *Scheduler) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// setStatusLocked updates the indicator and reports whether it changed.
func (s *Scheduler) setStatusLocked(st Status) bool {
	if s.status == st {
		return false
	}
	s.status = st
	return true
}

func (s *Scheduler) notify(st Status, changed bool) {
	if changed && s.onStatus != nil {
		s.onStatus(st)
	}
}
