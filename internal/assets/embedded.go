package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
)

//go:embed web
var web embed.FS

// EmbeddedLoader loads assets from the embedded web/ directory.
// Implements AssetLoader interface.
type EmbeddedLoader struct {
	root fs.FS
}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	root, err := fs.Sub(web, "web")
	if err != nil {
		// web is a literal directory of the embed pattern.
		panic(err)
	}
	return &EmbeddedLoader{root: root}
}

// Stat describes an embedded file or directory.
func (e *EmbeddedLoader) Stat(p string) (fs.FileInfo, error) {
	if err := ValidateAssetPath(p); err != nil {
		return nil, err
	}
	info, err := fs.Stat(e.root, p)
	if err != nil {
		return nil, wrapFSError(p, err)
	}
	return info, nil
}

// ReadFile returns an embedded file.
func (e *EmbeddedLoader) ReadFile(p string) ([]byte, error) {
	if err := ValidateAssetPath(p); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(e.root, p)
	if err != nil {
		return nil, wrapFSError(p, err)
	}
	return data, nil
}

// LoadStyle loads a stylesheet from embedded assets by name.
// The name should not include the .css extension.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := e.ReadFile(name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}

	return string(content), nil
}

// wrapFSError maps io/fs errors to the package sentinels.
func wrapFSError(p string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q", ErrAssetNotFound, p)
	}
	return fmt.Errorf("%w: %v", ErrAssetRead, err)
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
