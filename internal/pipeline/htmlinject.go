package pipeline

import (
	"context"
	"fmt"
	"html"
	"strings"
)

// printTemplate wraps a preview fragment in a standalone HTML5 document.
const printTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
<article class="preview">
%s
</article>
</body>
</html>`

// DefaultPrintTitle is used when the document metadata has no title.
const DefaultPrintTitle = "Document"

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection inserts a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS places the style block before </head>, else right after the
// opening <body> tag, else in front of the content.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lower := strings.ToLower(htmlContent)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	if idx := strings.Index(lower, "<body"); idx != -1 {
		if end := strings.Index(htmlContent[idx:], ">"); end != -1 {
			pos := idx + end + 1
			return htmlContent[:pos] + styleBlock + htmlContent[pos:]
		}
	}
	return styleBlock + htmlContent
}

// sanitizeCSS escapes "</" so the stylesheet cannot close its <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// PrintOptions controls PrintDocument.
type PrintOptions struct {
	// Title is the document title; empty uses DefaultPrintTitle.
	Title string
	// CSS is injected as a <style> block.
	CSS string
	// SourceDir, when set, anchors relative image and link paths.
	SourceDir string
}

// PrintDocument turns a preview fragment into a standalone HTML page suitable
// for printing.
func PrintDocument(ctx context.Context, fragment string, opts PrintOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = DefaultPrintTitle
	}
	doc := fmt.Sprintf(printTemplate, html.EscapeString(title), fragment)

	doc, err := RewriteRelativePaths(doc, opts.SourceDir)
	if err != nil {
		return "", fmt.Errorf("rewriting paths: %w", err)
	}

	injector := &CSSInjection{}
	return injector.InjectCSS(ctx, doc, opts.CSS), nil
}

// TitleFromMeta returns the "title" entry of document metadata, if it is a string.
func TitleFromMeta(meta map[string]any) string {
	if t, ok := meta["title"].(string); ok {
		return strings.TrimSpace(t)
	}
	return ""
}

// Compile-time interface check.
var _ CSSInjector = (*CSSInjection)(nil)
