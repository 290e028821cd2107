// Package assets serves the browser client of the studio and the print
// stylesheet.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from the go:embed web/ directory
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in client (index.html, app.js, app.css)
// and print.css, compiled into the binary.
//
// FilesystemLoader lets users serve a custom client from a directory, with
// path containment checks and symlink resolution.
//
// AssetResolver is the loader used by the server. It tries the custom
// FilesystemLoader first, falling back to EmbeddedLoader when the asset is
// not found. This enables overriding single files while keeping defaults.
//
// # Security
//
// Paths are validated before any lookup. FilesystemLoader resolves symlinks
// and verifies paths stay within its root; escapes return ErrPathTraversal.
package assets
