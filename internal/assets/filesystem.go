package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads assets from a directory on the filesystem.
// Implements AssetLoader interface.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader creates a FilesystemLoader for the given base path.
// Returns ErrInvalidBasePath if the path is not a valid, readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// Containment checks compare resolved paths.
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}

	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{basePath: absPath}, nil
}

// Root returns the resolved base directory.
func (f *FilesystemLoader) Root() string {
	return f.basePath
}

// Stat describes the file or directory at p under the base path.
func (f *FilesystemLoader) Stat(p string) (fs.FileInfo, error) {
	filePath, err := f.resolve(p)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, wrapOSError(p, err)
	}
	return info, nil
}

// ReadFile returns the file at p under the base path.
func (f *FilesystemLoader) ReadFile(p string) ([]byte, error) {
	filePath, err := f.resolve(p)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(filePath) // #nosec G304 -- path validated by resolve
	if err != nil {
		return nil, wrapOSError(p, err)
	}
	return content, nil
}

// resolve validates p and maps it to a contained absolute path.
func (f *FilesystemLoader) resolve(p string) (string, error) {
	if err := ValidateAssetPath(p); err != nil {
		return "", err
	}
	filePath := filepath.Join(f.basePath, filepath.FromSlash(p))
	if err := f.verifyPathContainment(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

// verifyPathContainment ensures the resolved file path is within basePath.
// Symlinks are resolved first so a link cannot point outside the root.
func (f *FilesystemLoader) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	// A missing file keeps its unresolved path; opening it fails later.
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	// The separator suffix rejects siblings such as /base/pathevil.
	if absFilePath != f.basePath && !strings.HasPrefix(absFilePath, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}

	return nil
}

func wrapOSError(p string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q", ErrAssetNotFound, p)
	}
	return fmt.Errorf("%w: %v", ErrAssetRead, err)
}

// Compile-time interface check.
var _ AssetLoader = (*FilesystemLoader)(nil)
