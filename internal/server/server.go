// Package server exposes a Studio over HTTP: the web client as static
// files and the editing operations as a small JSON API.
//
//	GET  /                    web client (static, see Static)
//	GET  /api/document        document, preview and status
//	PUT  /api/document        replace the document (POST accepted for beacons)
//	POST /api/toolbar         run a toolbar action
//	POST /api/reset           replace with the default document
//	POST /api/clear           empty the document
//	POST /api/import          multipart upload, field "file"
//	GET  /api/export          download document.md
//	GET  /api/theme           current theme
//	POST /api/theme           toggle the theme
//	GET  /api/preview         rendered preview
//	POST /api/scroll          preview scroll position for an editor position
//	GET  /api/clipboard       styled HTML and plain text for a copy
//	POST /api/copy            copy to the server's clipboard
//	GET  /api/print           PDF (?format=html for the print page)
//	GET  /api/status          save, copy and theme indicators
//	GET  /api/highlight.css   code highlighting stylesheet
//	GET  /api/settings        client preferences
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/alnah/go-mdstudio"
	"github.com/alnah/go-mdstudio/internal/assets"
	"github.com/alnah/go-mdstudio/internal/clipboard"
	"github.com/alnah/go-mdstudio/internal/editor"
	"github.com/alnah/go-mdstudio/internal/pipeline"
)

// Server timeouts.
const (
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second
)

// maxImportRequest bounds the multipart body of an import. The file itself
// is limited by the studio.
const maxImportRequest = mdstudio.MaxImportSize + 1<<20

// Studio is the application state served over HTTP.
type Studio interface {
	Document() editor.Buffer
	Edit(text string, sel editor.Selection) (editor.Buffer, error)
	Apply(ctx context.Context, action editor.Action, args editor.Args) (editor.Buffer, error)
	Reset(confirm bool) (editor.Buffer, error)
	Clear() (editor.Buffer, error)
	Import(r io.Reader, name string) (editor.Buffer, error)
	Export() mdstudio.ExportFile
	Theme() mdstudio.Theme
	ToggleTheme() mdstudio.Theme
	Preview(ctx context.Context) (pipeline.Preview, error)
	ClipboardPayload(ctx context.Context) (clipboard.Payload, error)
	Copy(ctx context.Context) (clipboard.Result, error)
	PrintHTML(ctx context.Context) (string, error)
	Print(ctx context.Context) ([]byte, error)
	Status() mdstudio.Status
}

// Compile-time interface check.
var _ Studio = (*mdstudio.Studio)(nil)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAssets sets where static files are read from.
func WithAssets(l assets.AssetLoader) Option {
	return func(s *Server) {
		if l != nil {
			s.assets = l
		}
	}
}

// WithHighlightStyle sets the chroma style of /api/highlight.css.
func WithHighlightStyle(name string) Option {
	return func(s *Server) {
		s.highlightStyle = name
	}
}

// WithSettings sets the client preferences served by /api/settings.
func WithSettings(c ClientSettings) Option {
	return func(s *Server) {
		s.settings = c
	}
}

// ClientSettings are preferences the web client reads at startup.
type ClientSettings struct {
	SyncScroll bool `json:"syncScroll"`
}

// Server serves one Studio.
type Server struct {
	studio         Studio
	assets         assets.AssetLoader
	logger         *slog.Logger
	highlightStyle string
	settings       ClientSettings
}

// New creates a Server for studio. Static files default to the embedded
// web client.
func New(studio Studio, opts ...Option) *Server {
	s := &Server{
		studio:         studio,
		assets:         assets.NewEmbeddedLoader(),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		highlightStyle: pipeline.DefaultHighlightStyle,
		settings:       ClientSettings{SyncScroll: true},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the full route table wrapped in middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/document", s.handleGetDocument)
	mux.HandleFunc("PUT /api/document", s.handlePutDocument)
	mux.HandleFunc("POST /api/document", s.handlePutDocument)
	mux.HandleFunc("POST /api/toolbar", s.handleToolbar)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("POST /api/clear", s.handleClear)
	mux.HandleFunc("POST /api/import", s.handleImport)
	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("GET /api/theme", s.handleGetTheme)
	mux.HandleFunc("POST /api/theme", s.handleToggleTheme)
	mux.HandleFunc("GET /api/preview", s.handlePreview)
	mux.HandleFunc("POST /api/scroll", s.handleScroll)
	mux.HandleFunc("GET /api/clipboard", s.handleClipboard)
	mux.HandleFunc("POST /api/copy", s.handleCopy)
	mux.HandleFunc("GET /api/print", s.handlePrint)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/highlight.css", s.handleHighlightCSS)
	mux.HandleFunc("GET /api/settings", s.handleSettings)
	mux.HandleFunc("/api/", s.handleAPINotFound)
	mux.Handle("/", Static(s.assets, s.logger))

	return withRecovery(s.logger, withRequestLog(s.logger, withSecurityHeaders(mux)))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. ready, if non-nil, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln, ready)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener, ready func(net.Addr)) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	if ready != nil {
		ready(ln.Addr())
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
