package mdstudio

import (
	"context"
	"strings"

	"github.com/alnah/go-mdstudio/internal/autosave"
	"github.com/alnah/go-mdstudio/internal/clipboard"
)

// Theme is the color scheme of the studio.
type Theme string

// Themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a stored preference to a Theme. Only "dark" selects the
// dark theme; anything else, including an empty string, is light.
func ParseTheme(s string) Theme {
	if strings.TrimSpace(s) == string(ThemeDark) {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Export defaults.
const (
	ExportName        = "document.md"
	ExportContentType = "text/markdown"
)

// MaxImportSize caps imported files.
const MaxImportSize = 5 << 20

// ExportFile is a download of the current document.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Status is a snapshot of the studio's transient indicators.
type Status struct {
	Save    autosave.Status  `json:"save"`
	Copy    clipboard.Status `json:"copy"`
	Theme   Theme            `json:"theme"`
	CanUndo bool             `json:"canUndo"`
	CanRedo bool             `json:"canRedo"`
}

// Printer renders a standalone HTML page to PDF bytes.
type Printer interface {
	Print(ctx context.Context, htmlContent string) ([]byte, error)
	Close() error
}
