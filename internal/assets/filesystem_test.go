package assets

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ---------------------------------------------------------------------------
// TestNewFilesystemLoader
// ---------------------------------------------------------------------------

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if loader.Root() == "" {
			t.Error("Root() is empty")
		}
	})

	t.Run("empty path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader(\"\") error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory returns error", func(t *testing.T) {
		t.Parallel()

		filePath := filepath.Join(t.TempDir(), "file.txt")
		writeFile(t, filePath, "test")

		_, err := NewFilesystemLoader(filePath)
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestFilesystemLoader_ReadFile
// ---------------------------------------------------------------------------

func TestFilesystemLoader_ReadFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), "<h1>custom</h1>")
	writeFile(t, filepath.Join(root, "docs", "guide.md"), "# Guide")

	loader, err := NewFilesystemLoader(root)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{name: "root file", path: "index.html", want: "<h1>custom</h1>"},
		{name: "nested file", path: "docs/guide.md", want: "# Guide"},
		{name: "missing file", path: "app.js", wantErr: ErrAssetNotFound},
		{name: "parent traversal", path: "../outside", wantErr: ErrInvalidAssetPath},
		{name: "absolute path", path: "/etc/passwd", wantErr: ErrInvalidAssetPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.ReadFile(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ReadFile(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadFile(%q) error = %v", tt.path, err)
			}
			if string(got) != tt.want {
				t.Errorf("ReadFile(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestFilesystemLoader_Stat(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "index.html"), "docs")

	loader, err := NewFilesystemLoader(root)
	if err != nil {
		t.Fatal(err)
	}

	info, err := loader.Stat("docs")
	if err != nil {
		t.Fatalf("Stat(docs) error = %v", err)
	}
	if !info.IsDir() {
		t.Error("Stat(docs) is not a directory")
	}
	if _, err := loader.Stat("nothing"); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("Stat(nothing) error = %v, want ErrAssetNotFound", err)
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "secret.txt"), "secret")

	root := t.TempDir()
	if err := os.Symlink(filepath.Join(outside, "secret.txt"), filepath.Join(root, "leak.txt")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	loader, err := NewFilesystemLoader(root)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := loader.ReadFile("leak.txt"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("ReadFile(leak.txt) error = %v, want ErrPathTraversal", err)
	}
	if _, err := loader.Stat("leak.txt"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("Stat(leak.txt) error = %v, want ErrPathTraversal", err)
	}
}
