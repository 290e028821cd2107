package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/alnah/go-mdstudio"
	"github.com/alnah/go-mdstudio/internal/editor"
	"github.com/alnah/go-mdstudio/internal/pipeline"
)

// maxJSONBody bounds JSON request bodies. A document edit carries the whole
// text, so it matches the import limit.
const maxJSONBody = mdstudio.MaxImportSize + 64<<10

// stateResponse is returned by every call that changes the document.
type stateResponse struct {
	Document editor.Buffer     `json:"document"`
	Preview  *pipeline.Preview `json:"preview,omitempty"`
	Status   mdstudio.Status   `json:"status"`
}

type toolbarRequest struct {
	Action string      `json:"action"`
	Args   editor.Args `json:"args"`
	// Document, when set, is applied as an edit first so the action sees
	// the client's latest text and selection.
	Document *editor.Buffer `json:"document,omitempty"`
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

type themeResponse struct {
	Theme mdstudio.Theme `json:"theme"`
}

type scrollRequest struct {
	Editor  pipeline.Metrics `json:"editor"`
	Preview pipeline.Metrics `json:"preview"`
}

type scrollResponse struct {
	Top   float64 `json:"top"`
	Ratio float64 `json:"ratio"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			// An empty body leaves v at its zero value.
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: %v", mdstudio.ErrImportTooLarge, err)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// respondState writes the buffer with a fresh preview and status.
func (s *Server) respondState(w http.ResponseWriter, r *http.Request, buf editor.Buffer) {
	pv, err := s.studio.Preview(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, stateResponse{
		Document: buf,
		Preview:  &pv,
		Status:   s.studio.Status(),
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	s.respondState(w, r, s.studio.Document())
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	var buf editor.Buffer
	if err := decodeJSON(w, r, &buf); err != nil {
		writeError(w, s.logger, err)
		return
	}
	next, err := s.studio.Edit(buf.Text, buf.Selection)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	s.respondState(w, r, next)
}

func (s *Server) handleToolbar(w http.ResponseWriter, r *http.Request) {
	var req toolbarRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if req.Document != nil {
		if _, err := s.studio.Edit(req.Document.Text, req.Document.Selection); err != nil {
			writeError(w, s.logger, err)
			return
		}
	}
	buf, err := s.studio.Apply(r.Context(), editor.ParseAction(req.Action), req.Args)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	s.respondState(w, r, buf)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	buf, err := s.studio.Reset(req.Confirm)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	s.respondState(w, r, buf)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	buf, err := s.studio.Clear()
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	s.respondState(w, r, buf)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportRequest)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, s.logger, fmt.Errorf("%w: %v", mdstudio.ErrImportTooLarge, err))
			return
		}
		writeError(w, s.logger, fmt.Errorf("%w: missing file field: %v", errBadRequest, err))
		return
	}
	defer func() { _ = file.Close() }()

	buf, err := s.studio.Import(file, header.Filename)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	s.respondState(w, r, buf)
}

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	f := s.studio.Export()
	w.Header().Set("Content-Type", f.ContentType+"; charset=UTF-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(f.Data); err != nil {
		s.logger.Debug("write export", "error", err)
	}
}

func (s *Server) handleGetTheme(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, themeResponse{Theme: s.studio.Theme()})
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, themeResponse{Theme: s.studio.ToggleTheme()})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	pv, err := s.studio.Preview(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, pv)
}

func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	var req scrollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, scrollResponse{
		Top:   pipeline.SyncTop(req.Editor, req.Preview),
		Ratio: req.Editor.Ratio(),
	})
}

func (s *Server) handleClipboard(w http.ResponseWriter, r *http.Request) {
	p, err := s.studio.ClipboardPayload(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, p)
}

func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	res, err := s.studio.Copy(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, res)
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "html" {
		page, err := s.studio.PrintHTML(r.Context())
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=UTF-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, page)
		return
	}

	data, err := s.studio.Print(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="document.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("write pdf", "error", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, s.studio.Status())
}

func (s *Server) handleSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, s.settings)
}

func (s *Server) handleHighlightCSS(w http.ResponseWriter, _ *http.Request) {
	css, err := pipeline.HighlightCSS(s.highlightStyle)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, css)
}

func (s *Server) handleAPINotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, http.StatusNotFound, errorResponse{Error: "no such endpoint"})
}
