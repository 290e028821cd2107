package clipboard

import (
	"context"

	"github.com/atotto/clipboard"
)

// PlainStrategy writes the text representation to the system clipboard.
type PlainStrategy struct {
	unsupported func() bool
	writeAll    func(string) error
}

// NewPlainStrategy creates a strategy backed by the platform clipboard.
func NewPlainStrategy() *PlainStrategy {
	return &PlainStrategy{
		unsupported: func() bool { return clipboard.Unsupported },
		writeAll:    clipboard.WriteAll,
	}
}

// Name implements Strategy.
func (s *PlainStrategy) Name() string { return "plain" }

// Available implements Strategy.
func (s *PlainStrategy) Available() bool { return !s.unsupported() }

// Write implements Strategy. The platform call cannot be interrupted, so
// cancellation only stops waiting for it.
func (s *PlainStrategy) Write(ctx context.Context, p Payload) (Format, error) {
	if !s.Available() {
		return FormatNone, ErrUnavailable
	}

	done := make(chan error, 1)
	go func() {
		done <- s.writeAll(p.Text)
	}()

	select {
	case err := <-done:
		if err != nil {
			return FormatNone, err
		}
		return FormatPlain, nil
	case <-ctx.Done():
		return FormatNone, ctx.Err()
	}
}

var _ Strategy = (*PlainStrategy)(nil)
