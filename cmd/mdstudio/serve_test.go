package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mdstudio/internal/assets"
)

// startServe runs the serve command in the background and returns its base
// URL and a stop function that waits for shutdown.
func startServe(t *testing.T, te *testEnv, args ...string) (string, func() error) {
	t.Helper()

	ready := make(chan net.Addr, 1)
	te.Ready = func(addr net.Addr) { ready <- addr }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runServe(ctx, append([]string{"--host", "127.0.0.1", "--port", "0"}, args...), te.Environment)
	}()

	select {
	case addr := <-ready:
		stop := func() error {
			cancel()
			return <-done
		}
		return "http://" + addr.String(), stop
	case err := <-done:
		cancel()
		t.Fatalf("runServe() exited early: %v\n%s", err, te.stderr.String())
	case <-time.After(10 * time.Second):
		cancel()
		t.Fatal("server did not become ready")
	}
	return "", nil
}

type documentState struct {
	Document struct {
		Text string `json:"text"`
	} `json:"document"`
}

func getDocument(t *testing.T, base string) string {
	t.Helper()

	resp, err := http.Get(base + "/api/document")
	if err != nil {
		t.Fatalf("GET /api/document: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var st documentState
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	return st.Document.Text
}

func putDocument(t *testing.T, base, text string) {
	t.Helper()

	body, _ := json.Marshal(map[string]any{"text": text, "selection": map[string]int{"start": 0, "end": 0}})
	req, err := http.NewRequest(http.MethodPut, base+"/api/document", strings.NewReader(string(body)))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT /api/document: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT /api/document status = %d", resp.StatusCode)
	}
}

// ---------------------------------------------------------------------------
// TestRunServe - studio server lifecycle
// ---------------------------------------------------------------------------

func TestRunServe_Ephemeral(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t, "")
	base, stop := startServe(t, te, "--ephemeral")

	resp, err := http.Get(base + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET / status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Get(base + "/api/settings")
	if err != nil {
		t.Fatalf("GET /api/settings: %v", err)
	}
	var settings struct {
		SyncScroll bool `json:"syncScroll"`
	}
	err = json.NewDecoder(resp.Body).Decode(&settings)
	_ = resp.Body.Close()
	if err != nil || !settings.SyncScroll {
		t.Errorf("settings = %+v (err %v), want syncScroll true", settings, err)
	}

	putDocument(t, base, "# Hello")
	if got := getDocument(t, base); got != "# Hello" {
		t.Errorf("document = %q, want %q", got, "# Hello")
	}

	if err := stop(); err != nil {
		t.Fatalf("runServe() error: %v", err)
	}
	if !strings.Contains(te.stderr.String(), "markdown studio running") {
		t.Errorf("logs missing startup line:\n%s", te.stderr.String())
	}
}

func TestRunServe_PersistsAcrossRestarts(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "studio.db")

	te := newTestEnv(t, "")
	base, stop := startServe(t, te, "--store", dbPath, "--autosave-delay", "10ms")
	putDocument(t, base, "kept across restarts")
	if err := stop(); err != nil {
		t.Fatalf("first run: %v", err)
	}

	te = newTestEnv(t, "")
	base, stop = startServe(t, te, "--store", dbPath)
	defer func() { _ = stop() }()

	if got := getDocument(t, base); got != "kept across restarts" {
		t.Errorf("document = %q, want the saved text", got)
	}
}

func TestRunServe_SyncScrollFromConfig(t *testing.T) {
	t.Parallel()

	cfgPath := writeFile(t, t.TempDir(), "studio.yaml", "editor:\n  syncScroll: false\n")

	te := newTestEnv(t, "")
	base, stop := startServe(t, te, "--ephemeral", "-c", cfgPath)
	defer func() { _ = stop() }()

	resp, err := http.Get(base + "/api/settings")
	if err != nil {
		t.Fatalf("GET /api/settings: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var settings map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&settings); err != nil {
		t.Fatalf("decoding settings: %v", err)
	}
	if settings["syncScroll"] {
		t.Error("syncScroll = true, want false")
	}
}

func TestRunServe_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid root", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t, "")
		err := runServe(context.Background(), []string{"--ephemeral", "--root", filepath.Join(t.TempDir(), "missing")}, te.Environment)
		if !errors.Is(err, assets.ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("address in use", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("listen: %v", err)
		}
		defer func() { _ = ln.Close() }()
		port := ln.Addr().(*net.TCPAddr).Port

		te := newTestEnv(t, "")
		err = runServe(context.Background(), []string{"--ephemeral", "--host", "127.0.0.1", "--port", strconv.Itoa(port)}, te.Environment)
		if code := exitCodeFor(err); code != ExitIO {
			t.Errorf("exit code = %d, want %d (err %v)", code, ExitIO, err)
		}
		if !strings.Contains(hintFor(err, te.Getenv), "--port") {
			t.Errorf("hint = %q", hintFor(err, te.Getenv))
		}
	})
}

// ---------------------------------------------------------------------------
// TestDisplayAddr - printable server URL
// ---------------------------------------------------------------------------

func TestDisplayAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		addr net.Addr
		want string
	}{
		{"unspecified v4", &net.TCPAddr{IP: net.IPv4zero, Port: 3001}, "localhost:3001"},
		{"unspecified v6", &net.TCPAddr{IP: net.IPv6unspecified, Port: 3001}, "localhost:3001"},
		{"loopback", &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8080}, "127.0.0.1:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := displayAddr(tt.addr); got != tt.want {
				t.Errorf("displayAddr() = %q, want %q", got, tt.want)
			}
		})
	}
}
