package clipboard

import (
	"context"
	"errors"
)

// Sentinel errors for clipboard delivery.
var (
	ErrUnavailable = errors.New("clipboard strategy unavailable")
	ErrCopyFailed  = errors.New("copy failed")
)

// Format tells which representation reached the clipboard.
type Format string

const (
	FormatNone  Format = ""
	FormatRich  Format = "rich"
	FormatPlain Format = "plain"
)

// Payload holds both representations of a copy.
type Payload struct {
	HTML string `json:"html"`
	Text string `json:"text"`
}

// Strategy is one way of placing a payload on the system clipboard.
type Strategy interface {
	// Name identifies the strategy in logs and diagnostics.
	Name() string
	// Available reports whether the strategy can run on this system.
	Available() bool
	// Write delivers p and reports the format that was written.
	Write(ctx context.Context, p Payload) (Format, error)
}

// DefaultStrategies returns the strategies in preference order: rich tools
// on PATH, the plain system clipboard, then an OSC 52 escape written to term.
// A nil term leaves the escape out.
func DefaultStrategies(term TerminalOutput) []Strategy {
	strategies := []Strategy{NewRichStrategy(nil), NewPlainStrategy()}
	if term != nil {
		strategies = append(strategies, NewTerminalStrategy(term))
	}
	return strategies
}
