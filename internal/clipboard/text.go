package clipboard

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-mdstudio/internal/htmltree"
)

var blockTags = map[string]bool{
	"address": true, "article": true, "blockquote": true, "dd": true, "div": true,
	"dl": true, "dt": true, "figure": true, "footer": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "ul": true,
}

var extraBlankLines = regexp.MustCompile(`\n{3,}`)

// textBuilder accumulates extracted text and remembers which byte ranges
// came verbatim from <pre>.
type textBuilder struct {
	strings.Builder
	pre [][2]int
}

func (b *textBuilder) writePre(s string) {
	start := b.Len()
	b.WriteString(s)
	if n := len(b.pre); n > 0 && b.pre[n-1][1] == start {
		b.pre[n-1][1] = b.Len()
		return
	}
	b.pre = append(b.pre, [2]int{start, b.Len()})
}

// tidy collapses blank-line runs and trims trailing blanks on every line,
// leaving preformatted ranges untouched.
func (b *textBuilder) tidy() string {
	text := b.String()
	var out strings.Builder
	pos := 0
	for _, r := range b.pre {
		out.WriteString(tidyLines(text[pos:r[0]]))
		out.WriteString(text[r[0]:r[1]])
		pos = r[1]
	}
	out.WriteString(tidyLines(text[pos:]))
	return out.String()
}

func tidyLines(s string) string {
	s = extraBlankLines.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// PlainText extracts the readable text of an HTML fragment: block elements
// are separated by blank lines, table cells by tabs, and whitespace outside
// pre is collapsed. Text inside pre is kept as written.
func PlainText(fragment string) (string, error) {
	root, err := htmltree.ParseFragment(fragment)
	if err != nil {
		return "", fmt.Errorf("parsing fragment: %w", err)
	}

	var b textBuilder
	writeText(&b, root, false)
	return strings.Trim(b.tidy(), "\n "), nil
}

func writeText(sb *textBuilder, n *html.Node, inPre bool) {
	switch n.Type {
	case html.TextNode:
		if inPre {
			sb.writePre(n.Data)
			return
		}
		text := whitespaceRun.ReplaceAllString(n.Data, " ")
		if strings.HasSuffix(sb.String(), "\n") || sb.Len() == 0 {
			text = strings.TrimLeft(text, " ")
		}
		sb.WriteString(text)
		return
	case html.ElementNode:
		switch n.Data {
		case "br":
			sb.WriteString("\n")
			return
		case "script", "style":
			return
		case "td", "th":
			if htmltree.PrevElementSibling(n) != nil {
				sb.WriteString("\t")
			}
		}
	}

	block := n.Type == html.ElementNode && blockTags[n.Data]
	if block {
		breakLine(sb)
	}
	pre := inPre || (n.Type == html.ElementNode && n.Data == "pre")
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c, pre)
	}
	if block {
		breakLine(sb)
		switch n.Data {
		case "tr", "li", "dt", "dd":
		default:
			sb.WriteString("\n")
		}
	}
}

// breakLine ends the current line unless it is already empty.
func breakLine(sb *textBuilder) {
	if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
		sb.WriteString("\n")
	}
}
