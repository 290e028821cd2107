package mdstudio

import "errors"

// Sentinel errors for studio operations.
var (
	ErrResetNotConfirmed = errors.New("reset not confirmed")
	ErrImport            = errors.New("import failed")
	ErrInvalidEncoding   = errors.New("file is not valid UTF-8")
	ErrImportTooLarge    = errors.New("file too large to import")
	ErrPrint             = errors.New("print failed")
	ErrClosed            = errors.New("studio is closed")

	// ErrNeedsRequest indicates a toolbar action that carries data the
	// toolbar cannot provide (a file, a download, a PDF).
	ErrNeedsRequest = errors.New("action requires a dedicated request")
)
