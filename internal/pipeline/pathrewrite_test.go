package pipeline

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func testSourceDir() string {
	if runtime.GOOS == "windows" {
		return `C:\docs`
	}
	return "/docs"
}

// ---------------------------------------------------------------------------
// TestRewriteRelativePaths - which references get anchored
// ---------------------------------------------------------------------------

func TestRewriteRelativePaths(t *testing.T) {
	t.Parallel()

	sourceDir := testSourceDir()

	tests := []struct {
		name         string
		html         string
		sourceDir    string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "relative image",
			html:         `<img src="./images/logo.png">`,
			sourceDir:    sourceDir,
			wantContains: []string{`src="file://`},
		},
		{
			name:         "relative link",
			html:         `<a href="other.md">x</a>`,
			sourceDir:    sourceDir,
			wantContains: []string{`href="file://`},
		},
		{
			name:         "empty sourceDir is a no-op",
			html:         `<img src="./logo.png">`,
			sourceDir:    "",
			wantContains: []string{`<img src="./logo.png">`},
		},
		{
			name:      "absolute references untouched",
			html:      `<img src="https://x.io/a.png"><img src="data:image/png;base64,AA"><a href="#top">t</a><a href="mailto:a@b.c">m</a>`,
			sourceDir: sourceDir,
			wantContains: []string{
				`src="https://x.io/a.png"`, `src="data:image/png;base64,AA"`,
				`href="#top"`, `href="mailto:a@b.c"`,
			},
			wantExcludes: []string{"file://"},
		},
		{
			name:         "media and scripts untouched",
			html:         `<video src="./v.mp4"></video><script src="./s.js"></script>`,
			sourceDir:    sourceDir,
			wantExcludes: []string{"file://"},
		},
		{
			name:         "traversal left alone",
			html:         `<img src="images/../../../etc/passwd">`,
			sourceDir:    sourceDir,
			wantContains: []string{`src="images/../../../etc/passwd"`},
		},
		{
			name:         "other attributes preserved",
			html:         `<img src="./logo.png" alt="Logo" width="100">`,
			sourceDir:    sourceDir,
			wantContains: []string{`alt="Logo"`, `width="100"`, `src="file://`},
		},
		{
			name:         "fragment not wrapped",
			html:         `<p>Hello</p><img src="./logo.png">`,
			sourceDir:    sourceDir,
			wantContains: []string{"<p>Hello</p>"},
			wantExcludes: []string{"<html>", "<body>"},
		},
		{
			name:         "full document keeps structure",
			html:         "<!DOCTYPE html><html><head></head><body><img src=\"a.png\"></body></html>",
			sourceDir:    sourceDir,
			wantContains: []string{"<!DOCTYPE html>", "<body>", `src="file://`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteRelativePaths(tt.html, tt.sourceDir)
			if err != nil {
				t.Fatalf("RewriteRelativePaths() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("RewriteRelativePaths() = %q, want to contain %q", got, want)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("RewriteRelativePaths() = %q, should not contain %q", got, exclude)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestIsRelativePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"./image.png", true},
		{"images/logo.png", true},
		{"../parent.png", true},
		{"", false},
		{"http://example.com/a.png", false},
		{"file:///abs/a.png", false},
		{"//cdn.example.com/a.png", false},
		{"#anchor", false},
		{"mailto:someone@example.com", false},
	}

	for _, tt := range tests {
		if got := isRelativePath(tt.path); got != tt.want {
			t.Errorf("isRelativePath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsPathUnderDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		absPath string
		dir     string
		want    bool
	}{
		{"/docs/image.png", "/docs", true},
		{"/docs/images/logo.png", "/docs/", true},
		{"/docs", "/docs", true},
		{"/etc/passwd", "/docs", false},
		{"/docs-other/image.png", "/docs", false},
	}

	for _, tt := range tests {
		absPath, dir := filepath.FromSlash(tt.absPath), filepath.FromSlash(tt.dir)
		if got := isPathUnderDir(absPath, dir); got != tt.want {
			t.Errorf("isPathUnderDir(%q, %q) = %v, want %v", absPath, dir, got, tt.want)
		}
	}
}

func TestPathToFileURL(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("Unix paths")
	}

	tests := []struct {
		absPath string
		want    string
	}{
		{"/docs/images/logo.png", "file:///docs/images/logo.png"},
		{"/docs/my images/logo.png", "file:///docs/my%20images/logo.png"},
		{"/docs/日本語/logo.png", "file:///docs/%E6%97%A5%E6%9C%AC%E8%AA%9E/logo.png"},
	}

	for _, tt := range tests {
		if got := pathToFileURL(tt.absPath); got != tt.want {
			t.Errorf("pathToFileURL(%q) = %q, want %q", tt.absPath, got, tt.want)
		}
	}
}
