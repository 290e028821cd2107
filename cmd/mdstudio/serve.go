package main

import (
	"context"
	"fmt"
	"net"

	"github.com/alnah/go-mdstudio/internal/assets"
	"github.com/alnah/go-mdstudio/internal/server"
)

// runServe starts the web studio and blocks until ctx is cancelled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, positional[0])
	}

	logger := newLogger(env.Stderr, flags.common)
	setMaxProcs(logger)

	cfg, err := resolveConfig(env, flags, logger)
	if err != nil {
		return err
	}

	static, err := assets.NewAssetResolver(cfg.Server.Root)
	if err != nil {
		return err
	}
	if static.HasCustomLoader() {
		logger.Info("serving custom web client", "root", cfg.Server.Root)
	}

	studio, err := newStudio(cfg, env, logger, studioSetup{persistent: true})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := studio.Close(); cerr != nil {
			logger.Warn("closing studio", "error", cerr)
		}
	}()
	studio.Load(ctx)

	srv := server.New(studio,
		server.WithLogger(logger),
		server.WithAssets(static),
		server.WithHighlightStyle(cfg.Server.HighlightStyle),
		server.WithSettings(server.ClientSettings{SyncScroll: cfg.SyncScrollEnabled()}),
	)

	ready := func(addr net.Addr) {
		logger.Info("markdown studio running", "url", "http://"+displayAddr(addr))
		if env.Ready != nil {
			env.Ready(addr)
		}
	}
	if err := srv.ListenAndServe(ctx, cfg.Addr(), ready); err != nil {
		return err
	}
	logger.Info("markdown studio stopped")
	return nil
}

// displayAddr replaces an unspecified host with localhost so the logged URL
// can be opened as is.
func displayAddr(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok || !tcp.IP.IsUnspecified() {
		return addr.String()
	}
	return fmt.Sprintf("localhost:%d", tcp.Port)
}
