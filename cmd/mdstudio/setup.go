package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"go.uber.org/automaxprocs/maxprocs"

	mdstudio "github.com/alnah/go-mdstudio"
	"github.com/alnah/go-mdstudio/internal/assets"
	"github.com/alnah/go-mdstudio/internal/clipboard"
	"github.com/alnah/go-mdstudio/internal/config"
	"github.com/alnah/go-mdstudio/internal/hints"
	"github.com/alnah/go-mdstudio/internal/pdf"
	"github.com/alnah/go-mdstudio/internal/pipeline"
	"github.com/alnah/go-mdstudio/internal/store"
)

// newLogger returns a text logger on w: debug with --verbose, warnings and
// errors only with --quiet.
func newLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// setMaxProcs matches GOMAXPROCS to the container CPU quota.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(logger *slog.Logger) {
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))
}

// hintedError appends an actionable hint to an error message.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() + e.hint }
func (e *hintedError) Unwrap() error { return e.err }

// resolveConfig merges defaults, the config file, the environment and the
// flags, in increasing priority, and validates the result.
func resolveConfig(env *Environment, f *commandFlags, logger *slog.Logger) (*config.Config, error) {
	envCfg := loadEnvConfig(env.Getenv)
	warnEnv(logger, env.Environ(), envCfg)

	cfg := config.DefaultConfig()
	if name := firstNonEmpty(f.common.config, envCfg.ConfigPath); name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, &hintedError{err: err, hint: hints.ForConfigNotFound(config.SearchPaths(name))}
			}
			return nil, err
		}
		logger.Debug("config loaded", "config", name)
		cfg = loaded
	} else if env.ConfigName != "" {
		loaded, err := config.LoadConfig(env.ConfigName)
		switch {
		case err == nil:
			logger.Debug("config loaded", "config", env.ConfigName)
			cfg = loaded
		case !errors.Is(err, config.ErrConfigNotFound):
			return nil, err
		}
	}

	applyEnvConfig(envCfg, cfg)
	f.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := pipeline.HighlightCSS(cfg.Server.HighlightStyle); err != nil {
		return nil, err
	}
	return cfg, nil
}

// studioSetup describes how a command wants its Studio built.
type studioSetup struct {
	persistent bool   // open the configured store instead of an in-memory one
	sourceDir  string // anchors relative image paths when printing
}

// newStudio builds a Studio from cfg and the environment's services.
func newStudio(cfg *config.Config, env *Environment, logger *slog.Logger, setup studioSetup) (*mdstudio.Studio, error) {
	st, err := openStore(cfg, setup.persistent)
	if err != nil {
		return nil, err
	}

	copier, err := newCopier(cfg, env, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	printCSS, err := loadPrintCSS(cfg)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	opts := []mdstudio.Option{
		mdstudio.WithStore(st),
		mdstudio.WithLogger(logger),
		mdstudio.WithCopier(copier),
		mdstudio.WithPrintCSS(printCSS),
		mdstudio.WithPrinterFactory(printerFactory(cfg, env)),
		mdstudio.WithHistoryLimit(cfg.Editor.HistoryLimit),
	}
	if d := cfg.Editor.AutosaveDelay.Std(); d > 0 {
		opts = append(opts, mdstudio.WithAutosaveDelay(d))
	}
	if setup.sourceDir != "" {
		opts = append(opts, mdstudio.WithSourceDir(setup.sourceDir))
	}

	studio, err := mdstudio.New(opts...)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return studio, nil
}

// openStore opens the bbolt database, or a memory store when the studio is
// ephemeral or the command does not persist.
func openStore(cfg *config.Config, persistent bool) (store.Store, error) {
	if !persistent || cfg.Store.Ephemeral {
		return store.NewMemoryStore(cfg.Store.Quota), nil
	}

	path := cfg.Store.Path
	if path == "" {
		p, err := config.DefaultStorePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrOpen, err)
	}

	bs, err := store.OpenBolt(path)
	if err != nil {
		if errors.Is(err, store.ErrLocked) {
			return nil, &hintedError{err: err, hint: hints.ForStoreLocked()}
		}
		return nil, err
	}
	return bs, nil
}

// newCopier builds the clipboard copier with configured styles and delays.
func newCopier(cfg *config.Config, env *Environment, logger *slog.Logger) (*clipboard.Copier, error) {
	table, err := clipboard.DefaultStyleTable().WithOverrides(cfg.Clipboard.Styles)
	if err != nil {
		return nil, err
	}

	strategies := env.Clipboard
	if strategies == nil {
		var term clipboard.TerminalOutput
		if f, ok := env.Stderr.(*os.File); ok {
			term = f
		}
		strategies = clipboard.DefaultStrategies(term)
	}

	return clipboard.NewCopier(
		clipboard.WithStyleTable(table),
		clipboard.WithStrategies(strategies...),
		clipboard.WithResetDelays(cfg.Clipboard.ResetDelay.Std(), cfg.Clipboard.FailureResetDelay.Std()),
		clipboard.WithLogger(logger),
	), nil
}

// loadPrintCSS returns the print stylesheet, from the custom web root when
// it has one, followed by the code highlight rules.
func loadPrintCSS(cfg *config.Config) (string, error) {
	resolver, err := assets.NewAssetResolver(cfg.Server.Root)
	if err != nil {
		return "", err
	}
	css, err := resolver.ReadFile(assets.PrintStyle + ".css")
	if err != nil {
		return "", fmt.Errorf("loading print stylesheet: %w", err)
	}
	highlight, err := pipeline.HighlightCSS(cfg.Server.HighlightStyle)
	if err != nil {
		return "", err
	}
	return string(css) + "\n" + highlight, nil
}

// printerFactory returns how the Studio creates its printer on first print.
func printerFactory(cfg *config.Config, env *Environment) func() (mdstudio.Printer, error) {
	if env.NewPrinter != nil {
		return func() (mdstudio.Printer, error) { return env.NewPrinter(cfg) }
	}
	return func() (mdstudio.Printer, error) {
		return pdf.NewPool(
			pdf.ResolvePoolSize(cfg.Print.Workers),
			pdf.WithTimeout(cfg.Print.Timeout.Std()),
			pdf.WithPage(cfg.PageSettings()),
		), nil
	}
}
