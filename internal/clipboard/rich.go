package clipboard

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// RichWriter is a command-line tool that accepts HTML on stdin and offers it
// to the clipboard as text/html.
type RichWriter struct {
	Name string
	Args []string
}

// DefaultRichWriters lists the supported tools, Wayland first.
func DefaultRichWriters() []RichWriter {
	return []RichWriter{
		{Name: "wl-copy", Args: []string{"--type", "text/html"}},
		{Name: "xclip", Args: []string{"-selection", "clipboard", "-t", "text/html"}},
	}
}

// RichStrategy writes the HTML representation through the first RichWriter
// found on PATH. It offers HTML only: wl-copy and xclip take a single MIME
// type per invocation, so no text/plain flavor accompanies it and targets
// that accept only plain text paste nothing.
type RichStrategy struct {
	writers  []RichWriter
	lookPath func(string) (string, error)
	run      func(ctx context.Context, path string, args []string, stdin []byte) error
}

// NewRichStrategy creates a strategy over writers; nil means DefaultRichWriters.
func NewRichStrategy(writers []RichWriter) *RichStrategy {
	if writers == nil {
		writers = DefaultRichWriters()
	}
	return &RichStrategy{
		writers:  writers,
		lookPath: exec.LookPath,
		run:      runCommand,
	}
}

// Name implements Strategy.
func (s *RichStrategy) Name() string { return "rich" }

// Available implements Strategy.
func (s *RichStrategy) Available() bool {
	_, _, ok := s.find()
	return ok
}

// Tool returns the name of the writer that would be used, or "".
func (s *RichStrategy) Tool() string {
	w, _, ok := s.find()
	if !ok {
		return ""
	}
	return w.Name
}

// Write implements Strategy. Only p.HTML is written; p.Text is ignored.
func (s *RichStrategy) Write(ctx context.Context, p Payload) (Format, error) {
	w, path, ok := s.find()
	if !ok {
		return FormatNone, ErrUnavailable
	}
	if err := s.run(ctx, path, w.Args, []byte(p.HTML)); err != nil {
		return FormatNone, fmt.Errorf("%s: %w", w.Name, err)
	}
	return FormatRich, nil
}

func (s *RichStrategy) find() (RichWriter, string, bool) {
	for _, w := range s.writers {
		if path, err := s.lookPath(w.Name); err == nil {
			return w, path, true
		}
	}
	return RichWriter{}, "", false
}

func runCommand(ctx context.Context, path string, args []string, stdin []byte) error {
	cmd := exec.CommandContext(ctx, path, args...) // #nosec G204 -- path comes from a fixed tool list
	cmd.Stdin = bytes.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

var _ Strategy = (*RichStrategy)(nil)
