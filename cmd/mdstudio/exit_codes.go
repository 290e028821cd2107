package main

import (
	"context"
	"errors"
	"os"
	"syscall"

	mdstudio "github.com/alnah/go-mdstudio"
	"github.com/alnah/go-mdstudio/internal/assets"
	"github.com/alnah/go-mdstudio/internal/clipboard"
	"github.com/alnah/go-mdstudio/internal/config"
	"github.com/alnah/go-mdstudio/internal/hints"
	"github.com/alnah/go-mdstudio/internal/pdf"
	"github.com/alnah/go-mdstudio/internal/pipeline"
	"github.com/alnah/go-mdstudio/internal/store"
)

// Exit codes for the mdstudio CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, store unavailable
	ExitDevice  = 4 // Browser or clipboard errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser and clipboard errors (exit 4)
	if isBrowserError(err) ||
		errors.Is(err, mdstudio.ErrPrint) ||
		errors.Is(err, clipboard.ErrCopyFailed) {
		return ExitDevice
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, pdf.ErrInvalidPageSize) ||
		errors.Is(err, pdf.ErrInvalidMargin) ||
		errors.Is(err, clipboard.ErrInvalidStyle) ||
		errors.Is(err, pipeline.ErrUnknownStyle) ||
		errors.Is(err, assets.ErrInvalidBasePath) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, mdstudio.ErrImport) ||
		errors.Is(err, mdstudio.ErrImportTooLarge) ||
		errors.Is(err, mdstudio.ErrInvalidEncoding) ||
		errors.Is(err, store.ErrOpen) ||
		errors.Is(err, store.ErrLocked) ||
		errors.Is(err, syscall.EADDRINUSE) {
		return ExitIO
	}

	return ExitGeneral
}

// isBrowserError reports whether err comes from launching or driving Chrome.
func isBrowserError(err error) bool {
	return errors.Is(err, pdf.ErrBrowserConnect) ||
		errors.Is(err, pdf.ErrPageCreate) ||
		errors.Is(err, pdf.ErrPageLoad) ||
		errors.Is(err, pdf.ErrPDFGeneration)
}

// hintFor returns an actionable hint for err, or "" when there is none or
// the error already carries one. getenv reads the caller's environment.
func hintFor(err error, getenv hints.Getenv) string {
	var hinted *hintedError
	switch {
	case errors.As(err, &hinted):
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, pdf.ErrBrowserConnect):
		return hints.ForBrowserConnect(getenv)
	case errors.Is(err, clipboard.ErrCopyFailed):
		return hints.ForClipboard(getenv)
	case errors.Is(err, syscall.EADDRINUSE):
		return hints.ForAddrInUse()
	}
	return ""
}
