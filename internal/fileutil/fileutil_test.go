package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/alnah/go-mdstudio/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestWriteTempFile - temp documents handed to the browser
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		extension string
	}{
		{"html document", "<html><body>Test</body></html>", "html"},
		{"empty content", "", "html"},
		{"unicode content", "# Café\n\n“quoted” – naïve", "md"},
		{"large content", strings.Repeat("x", 1<<20), "txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path, cleanup, err := fileutil.WriteTempFile(tt.content, tt.extension)
			if err != nil {
				t.Fatalf("WriteTempFile() error = %v", err)
			}
			defer cleanup()

			base := filepath.Base(path)
			if !strings.HasPrefix(base, "mdstudio-") || !strings.HasSuffix(base, "."+tt.extension) {
				t.Errorf("temp file name = %q", base)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if string(data) != tt.content {
				t.Errorf("content length = %d, want %d", len(data), len(tt.content))
			}
		})
	}
}

func TestWriteTempFile_Cleanup(t *testing.T) {
	t.Parallel()

	path, cleanup, err := fileutil.WriteTempFile("x", "html")
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}
	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp file still exists after cleanup at %s", path)
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		extension string
		wantErr   error
	}{
		{"", fileutil.ErrExtensionEmpty},
		{"../foo", fileutil.ErrExtensionPathTraversal},
		{`a\b`, fileutil.ErrExtensionPathTraversal},
		{"a\x00", fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		_, cleanup, err := fileutil.WriteTempFile("content", tt.extension)
		if cleanup != nil {
			cleanup()
		}
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("WriteTempFile(ext=%q) error = %v, want %v", tt.extension, err, tt.wantErr)
		}
	}
}

// NOTE: modifies TMPDIR, cannot run in parallel.
func TestWriteTempFile_CreateTempError(t *testing.T) {
	t.Setenv("TMPDIR", "/nonexistent/path/that/does/not/exist")

	_, cleanup, err := fileutil.WriteTempFile("content", "html")
	if cleanup != nil {
		defer cleanup()
	}
	if err == nil || !strings.Contains(err.Error(), "creating temp file") {
		t.Errorf("WriteTempFile() error = %v, want creating temp file error", err)
	}
}

// ---------------------------------------------------------------------------
// TestFileExists
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(file, []byte("# x"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"regular file", file, true},
		{"directory", dir, false},
		{"missing", filepath.Join(dir, "missing.md"), false},
		{"empty path", "", false},
	}
	for _, tt := range tests {
		if got := fileutil.FileExists(tt.path); got != tt.want {
			t.Errorf("FileExists(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestReadLimited - bounded imports
// ---------------------------------------------------------------------------

func TestReadLimited(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		limit   int64
		want    string
		wantErr error
	}{
		{"under limit", "hello", 10, "hello", nil},
		{"exactly at limit", "hello", 5, "hello", nil},
		{"over limit", "hello!", 5, "", fileutil.ErrTooLarge},
		{"no limit", "hello", 0, "hello", nil},
		{"empty", "", 5, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fileutil.ReadLimited(strings.NewReader(tt.input), tt.limit)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReadLimited() error = %v, want %v", err, tt.wantErr)
			}
			if string(got) != tt.want {
				t.Errorf("ReadLimited() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadLimited_ReaderError(t *testing.T) {
	t.Parallel()

	errBroken := errors.New("broken pipe")
	if _, err := fileutil.ReadLimited(iotest.ErrReader(errBroken), 10); !errors.Is(err, errBroken) {
		t.Errorf("ReadLimited() error = %v, want %v", err, errBroken)
	}
}
