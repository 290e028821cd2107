package server

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/alnah/go-mdstudio/internal/assets"
)

// mimeTypes maps lower-case file extensions to Content-Type values.
var mimeTypes = map[string]string{
	".html": "text/html; charset=UTF-8",
	".css":  "text/css; charset=UTF-8",
	".js":   "application/javascript; charset=UTF-8",
	".json": "application/json; charset=UTF-8",
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".ico":  "image/x-icon",
}

const defaultMIMEType = "application/octet-stream"

var errForbiddenPath = errors.New("path outside the asset root")

// ContentType returns the Content-Type served for name.
func ContentType(name string) string {
	if t, ok := mimeTypes[strings.ToLower(path.Ext(name))]; ok {
		return t
	}
	return defaultMIMEType
}

// StaticPath turns a decoded request path into a path relative to the asset
// root. Leading parent segments are dropped and the root maps to
// index.html. A path that still climbs out returns errForbiddenPath.
func StaticPath(decoded string) (string, error) {
	p := path.Clean(strings.ReplaceAll(decoded, "\\", "/"))
	p = strings.TrimPrefix(p, "/")
	for strings.HasPrefix(p, "../") {
		p = p[len("../"):]
	}
	if p == "" || p == "." {
		return assets.IndexFile, nil
	}
	if assets.ValidateAssetPath(p) != nil {
		return "", errForbiddenPath
	}
	return p, nil
}

// Static serves the web client from loader.
//
// Missing files whose request path has no extension fall back to the root
// index.html so client-side routes load the app. Directories serve their
// own index.html.
func Static(loader assets.AssetLoader, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			writeText(w, http.StatusMethodNotAllowed, "405 Method Not Allowed")
			return
		}

		decoded, err := url.PathUnescape(r.URL.EscapedPath())
		if err != nil {
			writeText(w, http.StatusBadRequest, "400 Bad Request")
			return
		}

		name, err := StaticPath(decoded)
		if err != nil {
			writeText(w, http.StatusForbidden, "403 Forbidden")
			return
		}

		info, err := loader.Stat(name)
		switch {
		case err == nil && info.IsDir():
			name = path.Join(name, assets.IndexFile)
		case err == nil:
		case errors.Is(err, assets.ErrAssetNotFound):
			if decoded != "/" && !strings.Contains(decoded, ".") {
				name = assets.IndexFile
				break
			}
			writeText(w, http.StatusNotFound, "404 Not Found")
			return
		case isForbidden(err):
			writeText(w, http.StatusForbidden, "403 Forbidden")
			return
		default:
			logger.Error("stat asset", "path", name, "error", err)
			writeText(w, http.StatusInternalServerError, "500 Internal Server Error")
			return
		}

		sendFile(w, r, loader, logger, name)
	})
}

func sendFile(w http.ResponseWriter, r *http.Request, loader assets.AssetLoader, logger *slog.Logger, name string) {
	data, err := loader.ReadFile(name)
	switch {
	case err == nil:
	case errors.Is(err, assets.ErrAssetNotFound):
		writeText(w, http.StatusNotFound, "404 Not Found")
		return
	case isForbidden(err):
		writeText(w, http.StatusForbidden, "403 Forbidden")
		return
	default:
		logger.Error("read asset", "path", name, "error", err)
		writeText(w, http.StatusInternalServerError, "500 Internal Server Error")
		return
	}

	w.Header().Set("Content-Type", ContentType(name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(data); err != nil {
		logger.Debug("write asset", "path", name, "error", err)
	}
}

func isForbidden(err error) bool {
	return errors.Is(err, assets.ErrPathTraversal) || errors.Is(err, assets.ErrInvalidAssetPath)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
