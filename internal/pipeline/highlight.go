package pipeline

import (
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// ErrUnknownStyle indicates a highlight style chroma does not know.
var ErrUnknownStyle = errors.New("unknown highlight style")

// HighlightCSS returns the stylesheet for class-based code highlighting in
// the named chroma style. An empty name uses DefaultHighlightStyle.
func HighlightCSS(name string) (string, error) {
	if name == "" {
		name = DefaultHighlightStyle
	}
	style, ok := styles.Registry[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}

	var sb strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&sb, style); err != nil {
		return "", fmt.Errorf("writing highlight stylesheet: %w", err)
	}
	return sb.String(), nil
}
