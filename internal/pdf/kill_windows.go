//go:build windows

package pdf

import (
	"os/exec"
	"strconv"
)

// killBrowserTree force-kills Chrome and its child processes.
func killBrowserTree(pid int) {
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid comes from the launcher
}
