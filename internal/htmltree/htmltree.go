// Package htmltree provides small helpers over golang.org/x/net/html trees
// shared by the preview and clipboard stages.
package htmltree

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// IsDocument reports whether content looks like a full HTML document
// rather than a fragment.
func IsDocument(content string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(content))
	return strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html")
}

// Parse parses content as a full document or as a body fragment.
// Fragments are returned as children of a synthetic DocumentNode.
func Parse(content string) (root *html.Node, isFragment bool, err error) {
	if IsDocument(content) {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}
	root, err = ParseFragment(content)
	return root, true, err
}

// ParseFragment parses content in a body context and gathers the resulting
// nodes under a DocumentNode container, so no html/head/body wrapper is added.
func ParseFragment(content string) (*html.Node, error) {
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

// Render serializes root. For fragments only the children are written.
func Render(root *html.Node, isFragment bool) (string, error) {
	if isFragment {
		return RenderChildren(root)
	}
	var buf strings.Builder
	if err := html.Render(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderChildren serializes every child of n in order.
func RenderChildren(n *html.Node) (string, error) {
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Walk calls fn for n and its descendants in document order. When fn
// returns false the children of that node are skipped.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		Walk(c, fn)
		c = next
	}
}

// Attr returns the value of key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets key on n, replacing an existing value in place.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// TextContent concatenates every text node under n.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	Walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}

// HasAncestor reports whether any ancestor of n is an element named tag.
func HasAncestor(n *html.Node, tag string) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == tag {
			return true
		}
	}
	return false
}

// PrevElementSibling returns the nearest preceding sibling element, or nil.
func PrevElementSibling(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}
