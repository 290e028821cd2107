package mdstudio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/alnah/go-mdstudio/internal/assets"
	"github.com/alnah/go-mdstudio/internal/autosave"
	"github.com/alnah/go-mdstudio/internal/clipboard"
	"github.com/alnah/go-mdstudio/internal/editor"
	"github.com/alnah/go-mdstudio/internal/fileutil"
	"github.com/alnah/go-mdstudio/internal/pdf"
	"github.com/alnah/go-mdstudio/internal/pipeline"
	"github.com/alnah/go-mdstudio/internal/store"
)

// Compile-time interface checks.
var (
	_ Printer        = (*pdf.Pool)(nil)
	_ autosave.Saver = (store.Store)(nil)
)

// Studio is the application state: one document, its selection, the theme,
// and the services that render, save, copy and print it.
type Studio struct {
	cfg        studioConfig
	store      store.Store
	logger     *slog.Logger
	previewer  *pipeline.Previewer
	copier     *clipboard.Copier
	saver      *autosave.Scheduler
	newPrinter func() (Printer, error)
	printCSS   string
	sourceDir  string

	mu      sync.Mutex
	buf     editor.Buffer
	history *editor.History
	theme   Theme
	printer Printer
	closed  bool
}

// New creates a Studio holding the default document.
// Call Load to restore the persisted document and theme.
func New(opts ...Option) (*Studio, error) {
	st := &Studio{
		cfg:    studioConfig{autosaveDelay: autosave.DefaultDelay},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		buf:    editor.Buffer{Text: DefaultMarkdown},
		theme:  ThemeLight,
	}
	for _, opt := range opts {
		opt(st)
	}

	if st.store == nil {
		st.store = store.NewMemoryStore(0)
	}
	if st.previewer == nil {
		st.previewer = pipeline.NewPreviewer(nil)
	}
	if st.copier == nil {
		st.copier = clipboard.NewCopier(clipboard.WithLogger(st.logger))
	}
	if st.newPrinter == nil {
		st.newPrinter = func() (Printer, error) {
			return pdf.NewPool(pdf.ResolvePoolSize(0)), nil
		}
	}

	if st.cfg.printCSS != nil {
		st.printCSS = *st.cfg.printCSS
	} else {
		css, err := assets.LoadStyle(assets.PrintStyle)
		if err != nil {
			return nil, fmt.Errorf("loading print stylesheet: %w", err)
		}
		st.printCSS = css
	}

	st.history = editor.NewHistory(st.cfg.historyLimit)

	saverOpts := []autosave.Option{
		autosave.WithDelay(st.cfg.autosaveDelay),
		autosave.WithLogger(st.logger),
	}
	if st.cfg.clock != nil {
		saverOpts = append(saverOpts, autosave.WithClock(st.cfg.clock))
	}
	st.saver = autosave.New(st.store, store.KeyDocument, saverOpts...)

	return st, nil
}

// Load restores the document and theme from the store. A document that was
// never saved is replaced by DefaultMarkdown. Read failures are logged and
// fall back to the defaults.
func (s *Studio) Load(_ context.Context) editor.Buffer {
	text, ok, err := s.store.Get(store.KeyDocument)
	if err != nil {
		s.logger.Warn("document not restored", "error", err)
	}
	if err != nil || !ok {
		text = DefaultMarkdown
	}

	stored, _, err := s.store.Get(store.KeyTheme)
	if err != nil {
		s.logger.Warn("theme not restored", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = editor.Buffer{Text: text}
	s.theme = ParseTheme(stored)
	return s.buf
}

// Document returns the current buffer.
func (s *Studio) Document() editor.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf
}

// Edit replaces the document with text, as typed in the editing surface.
func (s *Studio) Edit(text string, sel editor.Selection) (editor.Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.buf, ErrClosed
	}
	s.changeLocked(editor.Buffer{Text: text, Selection: sel})
	return s.buf, nil
}

// Select moves the selection without changing the text.
func (s *Studio) Select(sel editor.Selection) editor.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.Selection = sel
	return s.buf
}

// Apply runs a toolbar action on the current buffer. Text actions go through
// editor.Dispatch; undo, redo, new and theme are handled here. Import,
// export and print carry data the toolbar cannot provide and return
// ErrNeedsRequest.
func (s *Studio) Apply(_ context.Context, action editor.Action, args editor.Args) (editor.Buffer, error) {
	switch action {
	case editor.ActionNew:
		return s.Reset(args.Confirm)
	case editor.ActionTheme:
		s.ToggleTheme()
		return s.Document(), nil
	case editor.ActionUndo:
		return s.Undo()
	case editor.ActionRedo:
		return s.Redo()
	case editor.ActionImport, editor.ActionExport, editor.ActionPrint:
		return s.Document(), fmt.Errorf("%w: %s", ErrNeedsRequest, action)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.buf, ErrClosed
	}
	next, err := editor.Dispatch(action, s.buf, args)
	if err != nil {
		return s.buf, err
	}
	s.changeLocked(next)
	return s.buf, nil
}

// Undo restores the buffer before the last change.
func (s *Studio) Undo() (editor.Buffer, error) {
	return s.travel(s.history.Undo)
}

// Redo reapplies the last undone change.
func (s *Studio) Redo() (editor.Buffer, error) {
	return s.travel(s.history.Redo)
}

func (s *Studio) travel(step func(editor.Buffer) (editor.Buffer, bool)) (editor.Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.buf, ErrClosed
	}
	next, ok := step(s.buf)
	if !ok {
		return s.buf, nil
	}
	s.buf = next
	s.saver.Schedule(next.Text)
	return s.buf, nil
}

// Reset replaces the document with DefaultMarkdown and saves it at once.
// Without confirm it returns ErrResetNotConfirmed and changes nothing.
func (s *Studio) Reset(confirm bool) (editor.Buffer, error) {
	if !confirm {
		return s.Document(), ErrResetNotConfirmed
	}

	s.mu.Lock()
	if s.closed {
		buf := s.buf
		s.mu.Unlock()
		return buf, ErrClosed
	}
	s.changeLocked(editor.Buffer{Text: DefaultMarkdown})
	s.saver.Schedule(s.buf.Text)
	buf := s.buf
	s.mu.Unlock()

	// A failed write shows up in SaveStatus.
	_ = s.saver.Flush()
	return buf, nil
}

// Clear empties the document.
func (s *Studio) Clear() (editor.Buffer, error) {
	return s.Edit("", editor.Cursor(0))
}

// Import replaces the document with the content of r, which must be UTF-8
// and at most MaxImportSize bytes. On any failure the document is unchanged.
func (s *Studio) Import(r io.Reader, name string) (editor.Buffer, error) {
	data, err := fileutil.ReadLimited(r, MaxImportSize)
	if errors.Is(err, fileutil.ErrTooLarge) {
		return s.Document(), fmt.Errorf("%w: %s exceeds %d bytes", ErrImportTooLarge, name, MaxImportSize)
	}
	if err != nil {
		return s.Document(), fmt.Errorf("%w: reading %s: %v", ErrImport, name, err)
	}
	if !utf8.Valid(data) {
		return s.Document(), fmt.Errorf("%w: %s", ErrInvalidEncoding, name)
	}

	text := string(data)
	s.logger.Debug("imported", "name", name, "bytes", len(data))
	return s.Edit(text, editor.Cursor(utf8.RuneCountInString(text)))
}

// Export returns the document as a Markdown download. The bytes equal the
// document text.
func (s *Studio) Export() ExportFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ExportFile{
		Name:        ExportName,
		ContentType: ExportContentType,
		Data:        []byte(s.buf.Text),
	}
}

// Theme returns the current theme.
func (s *Studio) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// ToggleTheme flips the theme and persists it. A persistence failure is
// logged; the theme changes regardless.
func (s *Studio) ToggleTheme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = s.theme.Toggle()
	// Persisted under the lock so the stored value follows toggle order.
	if err := s.store.Set(store.KeyTheme, string(s.theme)); err != nil {
		s.logger.Warn("theme preference not saved", "error", err)
	}
	return s.theme
}

// Preview renders the current document.
func (s *Studio) Preview(ctx context.Context) (pipeline.Preview, error) {
	return s.previewer.Render(ctx, s.Document().Text)
}

// ClipboardPayload returns the styled HTML and plain text a copy would
// write, without touching the system clipboard.
func (s *Studio) ClipboardPayload(ctx context.Context) (clipboard.Payload, error) {
	pv, err := s.Preview(ctx)
	if err != nil {
		return clipboard.Payload{}, err
	}
	return s.copier.Payload(pv.HTML)
}

// Copy renders the document and delivers it to the system clipboard. When
// every strategy fails the error wraps clipboard.ErrCopyFailed and
// CopyStatus reports the failure.
func (s *Studio) Copy(ctx context.Context) (clipboard.Result, error) {
	pv, err := s.Preview(ctx)
	if err != nil {
		return clipboard.Result{Status: clipboard.StatusFailed}, fmt.Errorf("%w: %v", clipboard.ErrCopyFailed, err)
	}
	return s.copier.Copy(ctx, pv.HTML)
}

// PrintHTML returns the standalone page that Print sends to the browser.
func (s *Studio) PrintHTML(ctx context.Context) (string, error) {
	pv, err := s.Preview(ctx)
	if err != nil {
		return "", err
	}
	return pipeline.PrintDocument(ctx, pv.HTML, pipeline.PrintOptions{
		Title:     pipeline.TitleFromMeta(pv.Meta),
		CSS:       s.printCSS,
		SourceDir: s.sourceDir,
	})
}

// Print renders the document to PDF. The printer is created on first use.
func (s *Studio) Print(ctx context.Context) ([]byte, error) {
	page, err := s.PrintHTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrint, err)
	}

	printer, err := s.ensurePrinter()
	if err != nil {
		return nil, err
	}

	data, err := printer.Print(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPrint, err)
	}
	return data, nil
}

func (s *Studio) ensurePrinter() (Printer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if s.printer != nil {
		return s.printer, nil
	}
	p, err := s.newPrinter()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPrint, err)
	}
	s.printer = p
	return p, nil
}

// SaveStatus returns the autosave indicator.
func (s *Studio) SaveStatus() autosave.Status {
	return s.saver.Status()
}

// CopyStatus returns the clipboard indicator.
func (s *Studio) CopyStatus() clipboard.Status {
	return s.copier.Status()
}

// Status returns every indicator at once.
func (s *Studio) Status() Status {
	s.mu.Lock()
	undo, redo := s.history.Len()
	theme := s.theme
	s.mu.Unlock()

	return Status{
		Save:    s.saver.Status(),
		Copy:    s.copier.Status(),
		Theme:   theme,
		CanUndo: undo > 0,
		CanRedo: redo > 0,
	}
}

// Close writes any pending change, then releases the printer and the store.
// Further mutations return ErrClosed.
func (s *Studio) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	printer := s.printer
	s.mu.Unlock()

	var errs []error
	if err := s.saver.Close(); err != nil {
		errs = append(errs, fmt.Errorf("saving document: %w", err))
	}
	if printer != nil {
		if err := printer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing printer: %w", err))
		}
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing store: %w", err))
	}
	return errors.Join(errs...)
}

// changeLocked is the single change path: record history, replace the
// buffer, schedule a save.
func (s *Studio) changeLocked(next editor.Buffer) {
	if next == s.buf {
		return
	}
	if next.Text != s.buf.Text {
		s.history.Record(s.buf)
		s.saver.Schedule(next.Text)
	}
	s.buf = next
}
