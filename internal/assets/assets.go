package assets

// Well-known assets of the web client.
const (
	IndexFile  = "index.html"
	AppStyle   = "app"
	PrintStyle = "print"
)

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads an embedded stylesheet by name using the default loader.
// The name should not include the .css extension or path components.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}
