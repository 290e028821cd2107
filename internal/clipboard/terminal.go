package clipboard

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/mattn/go-isatty"
)

// TerminalOutput is a writer backed by a file descriptor, such as os.Stderr.
type TerminalOutput interface {
	io.Writer
	Fd() uintptr
}

// TerminalStrategy asks the terminal emulator to set the clipboard with an
// OSC 52 escape sequence. Only the text representation is sent.
type TerminalStrategy struct {
	out        TerminalOutput
	isTerminal func(fd uintptr) bool
}

// NewTerminalStrategy creates a strategy writing to out.
func NewTerminalStrategy(out TerminalOutput) *TerminalStrategy {
	return &TerminalStrategy{
		out: out,
		isTerminal: func(fd uintptr) bool {
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
	}
}

// Name implements Strategy.
func (s *TerminalStrategy) Name() string { return "terminal" }

// Available implements Strategy.
func (s *TerminalStrategy) Available() bool {
	return s.out != nil && s.isTerminal(s.out.Fd())
}

// Write implements Strategy.
func (s *TerminalStrategy) Write(ctx context.Context, p Payload) (Format, error) {
	if err := ctx.Err(); err != nil {
		return FormatNone, err
	}
	if !s.Available() {
		return FormatNone, ErrUnavailable
	}
	if _, err := io.WriteString(s.out, osc52(p.Text)); err != nil {
		return FormatNone, fmt.Errorf("writing escape sequence: %w", err)
	}
	return FormatPlain, nil
}

func osc52(text string) string {
	return "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\a"
}

var _ Strategy = (*TerminalStrategy)(nil)
