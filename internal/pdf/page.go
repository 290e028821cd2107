// Package pdf prints studio documents to PDF with headless Chrome.
//
// A Pool hands out renderers, each owning one lazily launched browser, so
// concurrent print requests do not queue behind a single tab:
//
//	Pool
//	  └── converter (rodConverter)
//	        └── rodRenderer ── Chrome (go-rod)
package pdf

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for PDF printing.
var (
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrPDFGeneration   = errors.New("PDF generation failed")
	ErrInvalidPageSize = errors.New("invalid page size")
	ErrInvalidMargin   = errors.New("invalid margin")
	ErrPoolClosed      = errors.New("printer pool is closed")
)

// Page sizes.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Margin bounds and default, in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// pageDimensions maps page sizes to width and height in inches.
var pageDimensions = map[string]struct{ width, height float64 }{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// PageSettings controls the printed page. The zero value prints US Letter
// with DefaultMargin.
type PageSettings struct {
	Size   string
	Margin float64
}

// DefaultPageSettings returns US Letter with half-inch margins.
func DefaultPageSettings() PageSettings {
	return PageSettings{Size: PageSizeLetter, Margin: DefaultMargin}
}

// Validate checks the page size and margin.
func (p PageSettings) Validate() error {
	size := strings.ToLower(p.Size)
	if size != "" {
		if _, ok := pageDimensions[size]; !ok {
			return fmt.Errorf("%w: %q (must be letter, a4, or legal)", ErrInvalidPageSize, p.Size)
		}
	}
	if p.Margin != 0 && (p.Margin < MinMargin || p.Margin > MaxMargin) {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f inches)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// dimensions returns width, height and margin with defaults applied.
func (p PageSettings) dimensions() (width, height, margin float64) {
	dim, ok := pageDimensions[strings.ToLower(p.Size)]
	if !ok {
		dim = pageDimensions[PageSizeLetter]
	}
	margin = p.Margin
	if margin == 0 {
		margin = DefaultMargin
	}
	return dim.width, dim.height, margin
}
