package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alnah/go-mdstudio/internal/clock"
)

// Default delays before a copy status returns to idle.
const (
	DefaultResetDelay        = 1500 * time.Millisecond
	DefaultFailureResetDelay = 2000 * time.Millisecond
)

// Status is the user-visible copy indicator.
type Status string

// Copy indicator values.
const (
	StatusIdle        Status = ""
	StatusCopiedRich  Status = "Copied with formatting"
	StatusCopiedPlain Status = "Copied to clipboard"
	StatusFailed      Status = "Copy failed"
)

// Result describes a successful copy.
type Result struct {
	Format   Format `json:"format"`
	Strategy string `json:"strategy"`
	Status   Status `json:"status"`
}

// Option configures a Copier.
type Option func(*Copier)

// WithStyleTable sets the inline styles used for the HTML representation.
func WithStyleTable(t StyleTable) Option {
	return func(c *Copier) {
		c.table = t.Clone()
	}
}

// WithStrategies replaces the delivery strategies, tried in order. Calling it
// with no strategies disables delivery.
func WithStrategies(s ...Strategy) Option {
	return func(c *Copier) {
		c.strategies = append([]Strategy{}, s...)
	}
}

// WithClock sets the timer source for status resets.
func WithClock(clk clock.Clock) Option {
	return func(c *Copier) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithResetDelays sets how long success and failure statuses stay visible.
// Non-positive values keep the defaults.
func WithResetDelays(success, failure time.Duration) Option {
	return func(c *Copier) {
		if success > 0 {
			c.resetDelay = success
		}
		if failure > 0 {
			c.failureResetDelay = failure
		}
	}
}

// WithLogger sets the logger used for strategy failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Copier) {
		if l != nil {
			c.logger = l
		}
	}
}

// Copier turns rendered HTML into a clipboard payload and delivers it with
// the first strategy that succeeds. It is safe for concurrent use.
type Copier struct {
	table             StyleTable
	strategies        []Strategy
	clock             clock.Clock
	logger            *slog.Logger
	resetDelay        time.Duration
	failureResetDelay time.Duration

	mu     sync.Mutex
	status Status
	timer  clock.Timer
	gen    uint64
}

// NewCopier creates a Copier with the default style table and strategies
// (without the terminal strategy).
func NewCopier(opts ...Option) *Copier {
	c := &Copier{
		table:             DefaultStyleTable(),
		clock:             clock.Real{},
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		resetDelay:        DefaultResetDelay,
		failureResetDelay: DefaultFailureResetDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.strategies == nil {
		c.strategies = DefaultStrategies(nil)
	}
	return c
}

// Payload builds both clipboard representations of a rendered fragment.
func (c *Copier) Payload(fragment string) (Payload, error) {
	styled, err := Normalize(fragment, c.table)
	if err != nil {
		return Payload{}, err
	}
	text, err := PlainText(fragment)
	if err != nil {
		return Payload{}, err
	}
	return Payload{HTML: styled, Text: text}, nil
}

// Copy builds the payload for fragment and tries each strategy in order.
// When every strategy fails the status becomes StatusFailed and the
// returned error wraps ErrCopyFailed.
func (c *Copier) Copy(ctx context.Context, fragment string) (Result, error) {
	p, err := c.Payload(fragment)
	if err != nil {
		c.finish(StatusFailed)
		return Result{Status: StatusFailed}, fmt.Errorf("%w: %v", ErrCopyFailed, err)
	}
	return c.Deliver(ctx, p)
}

// Deliver tries each strategy in order with an already built payload.
func (c *Copier) Deliver(ctx context.Context, p Payload) (Result, error) {
	var errs []error
	for _, s := range c.strategies {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if !s.Available() {
			c.logger.Debug("clipboard strategy unavailable", "strategy", s.Name())
			continue
		}
		format, err := safeWrite(ctx, s, p)
		if err != nil {
			c.logger.Debug("clipboard strategy failed", "strategy", s.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}

		status := StatusCopiedPlain
		if format == FormatRich {
			status = StatusCopiedRich
		}
		c.finish(status)
		c.logger.Debug("copied", "strategy", s.Name(), "format", string(format))
		return Result{Format: format, Strategy: s.Name(), Status: status}, nil
	}

	c.finish(StatusFailed)
	if len(errs) == 0 {
		errs = append(errs, ErrUnavailable)
	}
	c.logger.Warn("copy failed", "error", errors.Join(errs...))
	return Result{Status: StatusFailed}, fmt.Errorf("%w: %w", ErrCopyFailed, errors.Join(errs...))
}

// Status returns the current copy indicator.
func (c *Copier) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Strategies returns the configured strategies in order.
func (c *Copier) Strategies() []Strategy {
	return append([]Strategy(nil), c.strategies...)
}

// finish shows status and replaces any pending reset.
func (c *Copier) finish(status Status) {
	delay := c.resetDelay
	if status == StatusFailed {
		delay = c.failureResetDelay
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.status = status
	c.timer = c.clock.AfterFunc(delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen == gen {
			c.status = StatusIdle
			c.timer = nil
		}
	})
}

// safeWrite turns a panicking strategy into an error.
func safeWrite(ctx context.Context, s Strategy, p Payload) (format Format, err error) {
	defer func() {
		if r := recover(); r != nil {
			format, err = FormatNone, fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Write(ctx, p)
}
