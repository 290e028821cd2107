package assets

import "io/fs"

// AssetLoader defines the contract for reading the files of the web client.
// Paths are slash-separated and relative to the asset root ("index.html",
// "css/app.css").
type AssetLoader interface {
	// Stat describes the file or directory at p.
	// Returns ErrAssetNotFound if nothing exists there.
	Stat(p string) (fs.FileInfo, error)

	// ReadFile returns the content of the file at p.
	// Returns ErrAssetNotFound if the file doesn't exist.
	// Returns ErrInvalidAssetPath or ErrPathTraversal for unsafe paths.
	ReadFile(p string) ([]byte, error)
}
