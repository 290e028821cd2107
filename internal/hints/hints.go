// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdstudio/internal/fileutil"
)

// Getenv looks up an environment variable. Callers pass os.Getenv or the
// lookup of an injected environment.
type Getenv func(string) string

// dockerEnvFile is created by Docker in every container.
var dockerEnvFile = "/.dockerenv"

// InContainer reports whether the process seems to run in a container, and
// which signal said so.
func InContainer(getenv Getenv) (bool, string) {
	if getenv("MDSTUDIO_CONTAINER") == "1" {
		return true, "MDSTUDIO_CONTAINER=1"
	}
	if fileutil.FileExists(dockerEnvFile) {
		return true, dockerEnvFile
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// InCI reports whether a CI runner is detected.
func InCI(getenv Getenv) bool {
	for _, key := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if getenv(key) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect returns hints when Chrome cannot be launched for
// printing. Sandbox advice only appears in containers and CI.
func ForBrowserConnect(getenv Getenv) string {
	var hints []string

	container, _ := InContainer(getenv)
	if (container || InCI(getenv)) && getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	hints = append(hints, "mdstudio doctor shows what is missing")

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the print timeout.
func ForTimeout() string {
	return format("for large documents, use --timeout or MDSTUDIO_PRINT_TIMEOUT")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-mdstudio/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/go-mdstudio/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForClipboard returns hints when no clipboard tool could take the copy.
// Wayland sessions need wl-copy, X11 sessions xclip.
func ForClipboard(getenv Getenv) string {
	switch {
	case getenv("WAYLAND_DISPLAY") != "":
		return format("install wl-clipboard for rich copy")
	case getenv("DISPLAY") != "":
		return format("install xclip for rich copy")
	default:
		return format("no display found; run in a terminal that supports OSC 52")
	}
}

// ForAddrInUse returns a hint when the listen address is taken.
func ForAddrInUse() string {
	return format("use --port or PORT to pick another port, or --port 0 for any free port")
}

// ForStoreLocked returns a hint when the document store is held by
// another process.
func ForStoreLocked() string {
	return format("another mdstudio may be running; stop it or use --ephemeral")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
