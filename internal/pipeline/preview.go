package pipeline

import (
	"context"
	"strings"
)

// byteOrderMark is ignored at the start of a document when rendering.
const byteOrderMark = "\uFEFF"

// EmptyStateHTML is shown instead of rendering a blank document.
const EmptyStateHTML = `<div class="empty-state">Start by typing your Markdown on the left panel.</div>`

// Preview is the rendered form of a document.
type Preview struct {
	HTML  string         `json:"html"`
	Empty bool           `json:"empty"`
	Meta  map[string]any `json:"meta,omitempty"`
}

// Previewer turns document text into preview HTML. It never mutates its
// input; rendering the same text twice yields the same HTML.
type Previewer struct {
	renderer Renderer
}

// NewPreviewer creates a Previewer. A nil renderer uses goldmark.
func NewPreviewer(r Renderer) *Previewer {
	if r == nil {
		r = NewGoldmarkRenderer()
	}
	return &Previewer{renderer: r}
}

// Render produces the preview for text. Whitespace-only text yields the
// empty-state placeholder without invoking the Markdown renderer. A leading
// byte order mark is skipped; the document itself keeps it.
func (p *Previewer) Render(ctx context.Context, text string) (Preview, error) {
	text = strings.TrimPrefix(text, byteOrderMark)
	if strings.TrimSpace(text) == "" {
		return Preview{HTML: EmptyStateHTML, Empty: true}, nil
	}

	fm, body := SplitFrontMatter(NormalizeLineEndings(text))

	out, err := p.renderer.Render(ctx, Preprocess(body))
	if err != nil {
		return Preview{}, err
	}

	pv := Preview{HTML: out}
	if fm != nil {
		pv.Meta = fm.Meta
	}
	return pv, nil
}
