//go:build !windows

package main

import (
	"os"
	"syscall"
)

// SIGHUP counts too: closing the terminal that runs `serve` should flush
// the document like Ctrl-C does.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
