package mdstudio

import (
	"log/slog"
	"time"

	"github.com/alnah/go-mdstudio/internal/clipboard"
	"github.com/alnah/go-mdstudio/internal/clock"
	"github.com/alnah/go-mdstudio/internal/pipeline"
	"github.com/alnah/go-mdstudio/internal/store"
)

// Option configures a Studio.
type Option func(*Studio)

// studioConfig holds settings consumed while building the Studio.
type studioConfig struct {
	autosaveDelay time.Duration
	historyLimit  int
	clock         clock.Clock
	printCSS      *string
}

// WithStore sets where the document and theme are persisted.
// The Studio takes ownership and closes it on Close.
func WithStore(s store.Store) Option {
	return func(st *Studio) {
		st.store = s
	}
}

// WithLogger sets the logger for persistence and clipboard failures.
func WithLogger(l *slog.Logger) Option {
	return func(st *Studio) {
		if l != nil {
			st.logger = l
		}
	}
}

// WithAutosaveDelay sets the quiet period before the document is saved.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithAutosaveDelay(d time.Duration) Option {
	if d <= 0 {
		panic("mdstudio: WithAutosaveDelay duration must be positive")
	}
	return func(st *Studio) {
		st.cfg.autosaveDelay = d
	}
}

// WithClock sets the timer source of the autosave scheduler.
func WithClock(c clock.Clock) Option {
	return func(st *Studio) {
		st.cfg.clock = c
	}
}

// WithHistoryLimit bounds the undo history.
func WithHistoryLimit(n int) Option {
	return func(st *Studio) {
		st.cfg.historyLimit = n
	}
}

// WithRenderer replaces the Markdown renderer.
func WithRenderer(r pipeline.Renderer) Option {
	return func(st *Studio) {
		st.previewer = pipeline.NewPreviewer(r)
	}
}

// WithCopier replaces the clipboard copier.
func WithCopier(c *clipboard.Copier) Option {
	return func(st *Studio) {
		st.copier = c
	}
}

// WithPrinter sets the PDF printer. The Studio closes it on Close.
func WithPrinter(p Printer) Option {
	return func(st *Studio) {
		st.printer = p
	}
}

// WithPrinterFactory sets how the PDF printer is created on first print.
func WithPrinterFactory(fn func() (Printer, error)) Option {
	return func(st *Studio) {
		st.newPrinter = fn
	}
}

// WithPrintCSS replaces the stylesheet of printed documents.
func WithPrintCSS(css string) Option {
	return func(st *Studio) {
		st.cfg.printCSS = &css
	}
}

// WithSourceDir anchors relative image paths of printed documents.
func WithSourceDir(dir string) Option {
	return func(st *Studio) {
		st.sourceDir = dir
	}
}
