package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-mdstudio/internal/htmltree"
)

// RewriteRelativePaths converts relative img[src] and a[href] values into
// absolute file:// URLs anchored at sourceDir. URLs, anchors, absolute paths
// and paths escaping sourceDir are left alone. An empty sourceDir returns the
// HTML unchanged.
func RewriteRelativePaths(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" {
		return htmlContent, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	root, isFragment, err := htmltree.Parse(htmlContent)
	if err != nil {
		return "", err
	}

	htmltree.Walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch n.Data {
		case "img":
			rewriteAttr(n, "src", absSourceDir)
		case "a":
			rewriteAttr(n, "href", absSourceDir)
		}
		return true
	})

	return htmltree.Render(root, isFragment)
}

func rewriteAttr(n *html.Node, key, sourceDir string) {
	val, ok := htmltree.Attr(n, key)
	if !ok || !isRelativePath(val) {
		return
	}

	absPath := filepath.Join(sourceDir, val)
	if !isPathUnderDir(absPath, sourceDir) {
		return
	}
	htmltree.SetAttr(n, key, pathToFileURL(absPath))
}

// isRelativePath reports whether path is a local relative reference.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") {
		return false
	}
	for _, prefix := range []string{"http://", "https://", "file://", "data:", "mailto:", "//"} {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return !filepath.IsAbs(path)
}

func isPathUnderDir(absPath, dir string) bool {
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(absPath)+string(filepath.Separator), cleanDir)
}

func pathToFileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
