package clipboard

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-mdstudio/internal/htmltree"
)

// Bullet is prepended to items of unordered lists, since paste targets
// often ignore list-style.
const Bullet = "• "

var (
	// whitespaceRun matches what a browser treats as \s.
	whitespaceRun = regexp.MustCompile(`[\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)

	// leadingPunctuation matches punctuation that must stay glued to a
	// preceding bold run.
	leadingPunctuation = regexp.MustCompile(`^[:：,，.。;；!！?？]`)

	inlineCodeSelector = cascadia.MustCompile("code")
	blockCodeSelector  = cascadia.MustCompile("pre code")
	bulletItemSelector = cascadia.MustCompile("ul > li")
)

// collapseParents are the elements whose direct text children get their
// whitespace collapsed.
var collapseParents = map[string]bool{
	"p": true, "li": true, "td": true, "th": true, "blockquote": true,
}

var inlineTags = map[string]bool{
	"strong": true, "em": true, "code": true, "a": true, "span": true, "b": true, "i": true,
}

// Normalize rewrites a preview fragment into self-contained HTML for the
// clipboard: whitespace is collapsed, every element carries inline styles
// from table, bullets become text and the result is wrapped in a <section>.
// The same input and table always produce the same bytes.
func Normalize(fragment string, table StyleTable) (string, error) {
	root, err := htmltree.ParseFragment(fragment)
	if err != nil {
		return "", fmt.Errorf("parsing fragment: %w", err)
	}

	collapseWhitespace(root)

	var elements []*html.Node
	htmltree.Walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			elements = append(elements, n)
		}
		return true
	})
	for _, el := range elements {
		styleElement(el, table)
	}

	section := &html.Node{Type: html.ElementNode, DataAtom: atom.Section, Data: "section"}
	htmltree.SetAttr(section, "style", table.Section.String())
	for c := root.FirstChild; c != nil; {
		next := c.NextSibling
		root.RemoveChild(c)
		section.AppendChild(c)
		c = next
	}

	var sb strings.Builder
	if err := html.Render(&sb, section); err != nil {
		return "", fmt.Errorf("rendering fragment: %w", err)
	}
	return sb.String(), nil
}

// collapseWhitespace squeezes whitespace runs in text nodes directly under
// collapseParents. Code is never touched.
func collapseWhitespace(root *html.Node) {
	htmltree.Walk(root, func(n *html.Node) bool {
		switch n.Type {
		case html.TextNode:
			if p := n.Parent; p != nil && p.Type == html.ElementNode && collapseParents[p.Data] {
				n.Data = whitespaceRun.ReplaceAllString(n.Data, " ")
			}
		case html.ElementNode:
			return n.Data != "pre" && n.Data != "code"
		}
		return true
	})
}

func styleElement(el *html.Node, table StyleTable) {
	tag := el.Data

	existing, _ := htmltree.Attr(el, "style")
	style, err := ParseDeclarations(existing)
	if err != nil {
		style = nil
	}
	style = style.Clone().Merge(table.Base)

	if inlineTags[tag] {
		style = style.Merge(table.Inline)
	}
	if inlineCodeSelector.Match(el) && !blockCodeSelector.Match(el) {
		style = style.Merge(table.InlineCode)
	}
	if rule, ok := table.Tags[tag]; ok {
		style = style.Merge(rule)
	}

	switch tag {
	case "strong", "b":
		absorbPunctuation(el)
	case "li":
		if bulletItemSelector.Match(el) {
			addBullet(el)
		}
	case "ul":
		if htmltree.PrevElementSibling(el) == nil {
			style = style.Set("margin-top", "0")
		}
	}

	htmltree.SetAttr(el, "style", style.String())
}

// absorbPunctuation moves a punctuation mark that starts the next text node
// into el, so the bold run and its punctuation cannot be split by a line break.
func absorbPunctuation(el *html.Node) {
	next := el.NextSibling
	if next == nil || next.Type != html.TextNode {
		return
	}
	mark := leadingPunctuation.FindString(next.Data)
	if mark == "" {
		return
	}
	next.Data = next.Data[len(mark):]
	if last := el.LastChild; last != nil && last.Type == html.TextNode {
		last.Data += mark
		return
	}
	el.AppendChild(&html.Node{Type: html.TextNode, Data: mark})
}

func addBullet(li *html.Node) {
	first := li.FirstChild
	if first != nil && first.Type == html.TextNode && strings.HasPrefix(first.Data, "•") {
		return
	}
	bullet := &html.Node{Type: html.TextNode, Data: Bullet}
	if first == nil {
		li.AppendChild(bullet)
		return
	}
	li.InsertBefore(bullet, first)
}
