//go:build !windows

package pdf

import "syscall"

// killBrowserTree sends SIGKILL to Chrome's process group so renderer and
// GPU helpers die with it.
func killBrowserTree(pid int) {
	// launcher.Kill runs afterwards and covers the leader.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
