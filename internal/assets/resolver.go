package assets

import (
	"errors"
	"io/fs"
)

// AssetResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the asset is not found in the custom location.
type AssetResolver struct {
	custom   AssetLoader // nil if no custom path configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded assets are used.
// If customBasePath is set, custom assets take precedence with fallback to embedded.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// Stat describes p, trying the custom loader first if available.
func (r *AssetResolver) Stat(p string) (fs.FileInfo, error) {
	if r.custom != nil {
		info, err := r.custom.Stat(p)
		if !isNotFoundError(err) {
			return info, err
		}
	}
	return r.embedded.Stat(p)
}

// ReadFile reads p, trying the custom loader first if available.
func (r *AssetResolver) ReadFile(p string) ([]byte, error) {
	if r.custom != nil {
		data, err := r.custom.ReadFile(p)
		// Only fall back for "not found", not validation or I/O errors.
		if !isNotFoundError(err) {
			return data, err
		}
	}
	return r.embedded.ReadFile(p)
}

// isNotFoundError checks if the error indicates the asset was not found.
func isNotFoundError(err error) bool {
	return errors.Is(err, ErrAssetNotFound) || errors.Is(err, ErrStyleNotFound)
}

// HasCustomLoader returns true if a custom asset loader is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
