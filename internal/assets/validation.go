package assets

import (
	"fmt"
	"io/fs"
	"strings"
)

// ValidateAssetName checks that an asset name is safe for use as a filename.
// Returns ErrInvalidAssetName if the name is empty or contains path separators,
// dots (which could allow extension manipulation), or traversal characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// ValidateAssetPath checks that p is a clean, relative, slash-separated path
// that stays inside the asset root. "." names the root itself.
func ValidateAssetPath(p string) error {
	if strings.Contains(p, "\\") || !fs.ValidPath(p) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetPath, p)
	}
	return nil
}
