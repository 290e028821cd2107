package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestGoldmarkRenderer_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantNot      []string
	}{
		{
			name:         "heading with generated id",
			input:        "# Hello World",
			wantContains: []string{`<h1 id="hello-world">Hello World</h1>`},
		},
		{
			name:         "paragraph with hard breaks",
			input:        "Line one\nLine two",
			wantContains: []string{"<p>Line one<br />", "Line two</p>"},
		},
		{
			name:         "GFM table",
			input:        "| A | B |\n|---|---|\n| 1 | 2 |",
			wantContains: []string{"<table>", "<thead>", "<tbody>", "<th>A</th>", "<td>1</td>"},
		},
		{
			name:         "GFM strikethrough",
			input:        "~~deleted~~",
			wantContains: []string{"<del>deleted</del>"},
		},
		{
			name:         "GFM task list",
			input:        "- [x] Done\n- [ ] Todo",
			wantContains: []string{`type="checkbox"`, "checked"},
		},
		{
			name:         "footnote",
			input:        "Text[^1]\n\n[^1]: Footnote content",
			wantContains: []string{"<sup", "footnote"},
		},
		{
			name:         "highlighted code block uses classes",
			input:        "```go\nfunc main() {}\n```",
			wantContains: []string{`class="chroma"`, `class="kd"`, "main"},
		},
		{
			name:         "inline code",
			input:        "Use `fmt.Println`",
			wantContains: []string{"<code>fmt.Println</code>"},
		},
		{
			name:         "highlight becomes mark",
			input:        "a ==hot== b",
			wantContains: []string{"<mark>hot</mark>"},
		},
		{
			name:         "two highlights on one line",
			input:        "==x== and ==y==",
			wantContains: []string{"<mark>x</mark> and <mark>y</mark>"},
		},
		{
			name:    "comparison operators are not highlights",
			input:   "a == b and c == d",
			wantNot: []string{"<mark>"},
		},
		{
			name:         "triple equals left alone",
			input:        "a ===b=== c",
			wantContains: []string{"===b==="},
			wantNot:      []string{"<mark>"},
		},
		{
			name:         "equals inside inline code stay literal",
			input:        "Inline `x == y == z`.",
			wantContains: []string{"<code>x == y == z</code>"},
			wantNot:      []string{"<mark>"},
		},
		{
			name:         "equals inside fenced code stay literal",
			input:        "```\nif (a == b || c == d) {}\n```",
			wantContains: []string{"a == b || c == d"},
			wantNot:      []string{"<mark>"},
		},
		{
			name:         "no document wrapper",
			input:        "# Test",
			wantNot:      []string{"<!DOCTYPE html>", "<body>"},
			wantContains: []string{"<h1"},
		},
		{
			name:         "raw HTML omitted",
			input:        "<script>alert('xss')</script>",
			wantContains: []string{"<!-- raw HTML omitted -->"},
			wantNot:      []string{"<script>"},
		},
	}

	renderer := NewGoldmarkRenderer()
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := renderer.Render(ctx, tt.input)
			if err != nil {
				t.Fatalf("Render() unexpected error: %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Render() should contain %q\nGot:\n%s", want, got)
				}
			}
			for _, notWant := range tt.wantNot {
				if strings.Contains(got, notWant) {
					t.Errorf("Render() should NOT contain %q\nGot:\n%s", notWant, got)
				}
			}
		})
	}
}

func TestGoldmarkRenderer_ContextCancellation(t *testing.T) {
	t.Parallel()

	renderer := NewGoldmarkRenderer()

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := renderer.Render(ctx, "# Test"); !errors.Is(err, context.Canceled) {
			t.Errorf("Render() error = %v, want context.Canceled", err)
		}
	})

	t.Run("deadline exceeded", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		if _, err := renderer.Render(ctx, "# Test"); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Render() error = %v, want context.DeadlineExceeded", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestPreprocess - blank line compression outside code
// ---------------------------------------------------------------------------

func TestPreprocess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text unchanged", "hello", "hello"},
		{"highlight syntax untouched", "a ==b== c", "a ==b== c"},
		{"blank lines compressed", "a\n\n\n\nb", "a\n\nb"},
		{"two newlines kept", "a\n\nb", "a\n\nb"},
		{"trailing newline kept", "a\n", "a\n"},
		{
			"blank lines inside backtick fence kept",
			"```c\nx;\n\n\n\ny;\n```\n\n\n\nafter",
			"```c\nx;\n\n\n\ny;\n```\n\nafter",
		},
		{
			"blank lines inside tilde fence kept",
			"~~~\na\n\n\nb\n~~~",
			"~~~\na\n\n\nb\n~~~",
		},
		{
			"shorter fence does not close",
			"````\n```\n\n\n\nx\n````",
			"````\n```\n\n\n\nx\n````",
		},
		{
			"other fence char does not close",
			"```\n~~~\n\n\nx\n```\n\n\ny",
			"```\n~~~\n\n\nx\n```\n\ny",
		},
		{
			"unclosed fence runs to end",
			"```\na\n\n\nb",
			"```\na\n\n\nb",
		},
		{
			"blank lines between indented code kept",
			"    a := 1\n\n\n    b := 2\n\n\ntext",
			"    a := 1\n\n\n    b := 2\n\ntext",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Preprocess(tt.input); got != tt.want {
				t.Errorf("Preprocess(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeLineEndings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"line1\nline2", "line1\nline2"},
		{"line1\r\nline2", "line1\nline2"},
		{"line1\rline2", "line1\nline2"},
		{"a\r\nb\rc\nd", "a\nb\nc\nd"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeLineEndings(tt.input); got != tt.want {
			t.Errorf("NormalizeLineEndings(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestHighlightCSS - chroma stylesheet
// ---------------------------------------------------------------------------

func TestHighlightCSS(t *testing.T) {
	t.Parallel()

	t.Run("default style", func(t *testing.T) {
		t.Parallel()

		css, err := HighlightCSS("")
		if err != nil {
			t.Fatalf("HighlightCSS() error = %v", err)
		}
		if !strings.Contains(css, ".chroma") {
			t.Errorf("HighlightCSS() missing .chroma selectors:\n%s", css)
		}
	})

	t.Run("named style is case insensitive", func(t *testing.T) {
		t.Parallel()

		if _, err := HighlightCSS("Monokai"); err != nil {
			t.Errorf("HighlightCSS(Monokai) error = %v", err)
		}
	})

	t.Run("unknown style", func(t *testing.T) {
		t.Parallel()

		if _, err := HighlightCSS("no-such-style"); !errors.Is(err, ErrUnknownStyle) {
			t.Errorf("HighlightCSS() error = %v, want ErrUnknownStyle", err)
		}
	})
}
