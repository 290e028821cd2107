package main

import (
	"io"
	"net"
	"os"
	"time"

	mdstudio "github.com/alnah/go-mdstudio"
	"github.com/alnah/go-mdstudio/internal/clipboard"
	"github.com/alnah/go-mdstudio/internal/config"
)

// defaultConfigName is looked up when neither --config nor MDSTUDIO_CONFIG is set.
const defaultConfigName = "mdstudio"

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment, and the external services
// (clipboard tools, Chrome) the commands talk to.
type Environment struct {
	Now     func() time.Time
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	// ConfigName is searched when no config is given; empty skips the search.
	ConfigName string

	// Clipboard replaces the default clipboard strategies when non-nil.
	Clipboard []clipboard.Strategy
	// NewPrinter replaces the Chrome printer pool when non-nil.
	NewPrinter func(cfg *config.Config) (mdstudio.Printer, error)
	// Ready is called once the server listens.
	Ready func(net.Addr)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:        time.Now,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Getenv:     os.Getenv,
		Environ:    os.Environ,
		ConfigName: defaultConfigName,
	}
}
