package pdf

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// Option configures a Pool.
type Option func(*Pool)

// WithTimeout sets the page load timeout used when a request has no deadline.
func WithTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithPage sets the page size and margins of every printed document.
func WithPage(page PageSettings) Option {
	return func(p *Pool) {
		p.page = page
	}
}

// Pool prints documents with up to Size browsers in parallel.
// Browsers are launched lazily on first use.
type Pool struct {
	size    int
	timeout time.Duration
	page    PageSettings
	factory func(timeout time.Duration) converter

	mu         sync.Mutex
	converters []converter
	sem        chan converter
	created    int
	closed     bool
}

// NewPool creates a pool with capacity for n browsers. n < 1 means 1.
func NewPool(n int, opts ...Option) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{
		size:    n,
		timeout: DefaultTimeout,
		page:    DefaultPageSettings(),
		factory: func(timeout time.Duration) converter { return newRodConverter(timeout) },
		sem:     make(chan converter, n),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Print renders a complete HTML document to PDF bytes.
func (p *Pool) Print(ctx context.Context, htmlContent string) ([]byte, error) {
	c, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.release(c)

	return c.ToPDF(ctx, htmlContent, p.page)
}

// acquire takes an idle converter, creates one if capacity remains, or
// waits for one to be released.
func (p *Pool) acquire(ctx context.Context) (converter, error) {
	select {
	case c, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return c, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		c := p.factory(p.timeout)
		p.converters = append(p.converters, c)
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	select {
	case c, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// release returns c to the pool. The channel holds every converter the
// pool can create, so the send never blocks.
func (p *Pool) release(c converter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- c
}

// Close releases all browser resources.
// Returns an aggregated error if several browsers fail to close.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	converters := p.converters
	p.mu.Unlock()

	var errs []error
	for _, c := range converters {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *Pool) Size() int {
	return p.size
}

// Page returns the page settings used for every document.
func (p *Pool) Page() PageSettings {
	return p.page
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs in containers.
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
