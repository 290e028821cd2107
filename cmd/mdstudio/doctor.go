package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-mdstudio/internal/clipboard"
	"github.com/alnah/go-mdstudio/internal/config"
	"github.com/alnah/go-mdstudio/internal/hints"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string          `json:"status"` // "ready", "warnings", "errors"
	Chrome    chromeInfo      `json:"chrome"`
	Clipboard []clipboardInfo `json:"clipboard"`
	Env       envInfo         `json:"environment"`
	System    systemInfo      `json:"system"`
	Warnings  []string        `json:"warnings,omitempty"`
	Errors    []string        `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// clipboardInfo describes one clipboard strategy.
type clipboardInfo struct {
	Strategy  string `json:"strategy"`
	Available bool   `json:"available"`
	Tool      string `json:"tool,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	Display       bool   `json:"display"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable  bool   `json:"temp_writable"`
	StorePath     string `json:"store_path,omitempty"`
	StoreWritable bool   `json:"store_writable"`
}

// toolReporter is implemented by strategies backed by an external command.
type toolReporter interface {
	Tool() string
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		switch arg {
		case "--json":
			jsonOutput = true
		case "-h", "--help":
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		default:
			fmt.Fprintf(env.Stderr, "unknown doctor flag: %s\n", arg)
			printDoctorUsage(env.Stderr)
			return ExitUsage
		}
	}

	result := runDoctor(env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(env *Environment) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  env.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: env.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result)
	checkEnvironment(result, env)
	checkClipboard(result, env)
	checkSystem(result, env)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkChrome detects Chrome/Chromium installation. Without it the studio
// runs but cannot print.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		// Use rod's launcher to locate Chrome
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; printing is disabled. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s; printing is disabled", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	cmd := exec.Command(chromePath, "--version") // #nosec G204 -- path from launcher or ROD_BROWSER_BIN
	out, err := cmd.Output()
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	// Sandbox status: disabled if ROD_NO_SANDBOX=1
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container, CI and display environments.
func checkEnvironment(result *doctorResult, env *Environment) {
	result.Env.Container, result.Env.ContainerHint = hints.InContainer(env.Getenv)
	result.Env.CI = hints.InCI(env.Getenv)

	result.Env.Display = runtime.GOOS != "linux" ||
		env.Getenv("WAYLAND_DISPLAY") != "" || env.Getenv("DISPLAY") != ""

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// checkClipboard lists the copy strategies the CLI would try. The browser
// client copies on its own, so missing tools only warn.
func checkClipboard(result *doctorResult, env *Environment) {
	strategies := env.Clipboard
	if strategies == nil {
		var term clipboard.TerminalOutput
		if f, ok := env.Stderr.(*os.File); ok {
			term = f
		}
		strategies = clipboard.DefaultStrategies(term)
	}

	anyAvailable, rich := false, false
	for _, s := range strategies {
		info := clipboardInfo{Strategy: s.Name(), Available: s.Available()}
		if tr, ok := s.(toolReporter); ok {
			info.Tool = tr.Tool()
			rich = rich || info.Tool != ""
		}
		anyAvailable = anyAvailable || info.Available
		result.Clipboard = append(result.Clipboard, info)
	}

	switch {
	case !anyAvailable:
		result.Warnings = append(result.Warnings,
			"No clipboard available; 'mdstudio copy' will fail")
	case !rich:
		result.Warnings = append(result.Warnings,
			"No wl-copy or xclip on PATH; 'mdstudio copy' will copy plain text only")
	}
}

// checkSystem verifies the temp directory and the store location.
func checkSystem(result *doctorResult, env *Environment) {
	tmpDir := os.TempDir()
	if err := probeWritable(tmpDir); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		result.System.TempWritable = true
	}

	path := env.Getenv("MDSTUDIO_STORE")
	if path == "" {
		p, err := config.DefaultStorePath()
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("No default store location: %v; use --store or --ephemeral", err))
			return
		}
		path = p
	}
	result.System.StorePath = path

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPermissions); err == nil && probeWritable(dir) == nil {
		result.System.StoreWritable = true
		return
	}
	result.Errors = append(result.Errors,
		fmt.Sprintf("Store directory not writable: %s; use --store or --ephemeral", dir))
}

// probeWritable creates and removes a file in dir.
func probeWritable(dir string) error {
	f, err := os.CreateTemp(dir, "mdstudio-doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mdstudio doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Clipboard")
	for _, c := range r.Clipboard {
		label := c.Strategy
		if c.Tool != "" {
			label += " (" + c.Tool + ")"
		}
		if c.Available {
			fmt.Fprintf(w, "  [OK] %s\n", label)
		} else {
			fmt.Fprintf(w, "  [--] %s: unavailable\n", label)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	if !r.Env.Display {
		fmt.Fprintln(w, "  [--] Display: none")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.System.StoreWritable {
		fmt.Fprintf(w, "  [OK] Store: %s\n", r.System.StorePath)
	} else if r.System.StorePath != "" {
		fmt.Fprintf(w, "  [ERROR] Store: %s not writable\n", r.System.StorePath)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
