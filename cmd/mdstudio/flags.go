package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdstudio/internal/config"
)

// ErrUsage indicates invalid flags or arguments.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// serverFlags holds listener and storage flags of the serve command.
type serverFlags struct {
	host      string
	port      int
	root      string
	store     string
	ephemeral bool
	autosave  time.Duration
}

// printFlags holds page layout and browser flags.
type printFlags struct {
	pageSize string
	margin   float64
	timeout  time.Duration
	workers  int
}

// commandFlags holds all flags of one command invocation. Only the groups
// registered for that command are populated.
type commandFlags struct {
	fs        *flag.FlagSet
	common    commonFlags
	server    serverFlags
	print     printFlags
	highlight string
	output    string
	format    string // render: preview, clipboard, page
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addServerFlags adds serve flags to a FlagSet.
func addServerFlags(fs *flag.FlagSet, f *serverFlags) {
	fs.StringVar(&f.host, "host", "", "listen host (default 0.0.0.0)")
	fs.IntVarP(&f.port, "port", "p", 0, "listen port (default 3001, 0 = any free port)")
	fs.StringVar(&f.root, "root", "", "serve the web client from this directory")
	fs.StringVar(&f.store, "store", "", "document database file")
	fs.BoolVar(&f.ephemeral, "ephemeral", false, "keep the document in memory only")
	fs.DurationVar(&f.autosave, "autosave-delay", 0, "quiet period before saving (e.g., 400ms)")
}

// addPrintFlags adds page layout flags to a FlagSet.
func addPrintFlags(fs *flag.FlagSet, f *printFlags) {
	fs.StringVar(&f.pageSize, "page-size", "", "page size: letter, a4, legal")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "PDF generation timeout (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "browser pool size (0 = auto)")
}

// newFlagSet creates the FlagSet of a command with common flags registered.
func newFlagSet(name string, usage func(io.Writer), stderr io.Writer) *commandFlags {
	f := &commandFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	f.fs.SetOutput(stderr)
	f.fs.Usage = func() { usage(stderr) }
	addCommonFlags(f.fs, &f.common)
	return f
}

// parse parses args and returns positional arguments. Parse errors wrap
// ErrUsage; --help returns flag.ErrHelp unwrapped.
func (f *commandFlags) parse(args []string) ([]string, error) {
	if err := f.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if f.common.quiet && f.common.verbose {
		return nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}
	return f.fs.Args(), nil
}

// apply copies explicitly set flags over cfg.
func (f *commandFlags) apply(cfg *config.Config) {
	changed := func(name string) bool {
		fl := f.fs.Lookup(name)
		return fl != nil && fl.Changed
	}

	if changed("host") {
		cfg.Server.Host = f.server.host
	}
	if changed("port") {
		cfg.Server.Port = f.server.port
	}
	if changed("root") {
		cfg.Server.Root = f.server.root
	}
	if changed("store") {
		cfg.Store.Path = f.server.store
	}
	if changed("ephemeral") {
		cfg.Store.Ephemeral = f.server.ephemeral
	}
	if changed("autosave-delay") {
		cfg.Editor.AutosaveDelay = config.Duration(f.server.autosave)
	}
	if changed("highlight") {
		cfg.Server.HighlightStyle = f.highlight
	}
	if changed("page-size") {
		cfg.Print.PageSize = f.print.pageSize
	}
	if changed("margin") {
		cfg.Print.Margin = f.print.margin
	}
	if changed("timeout") {
		cfg.Print.Timeout = config.Duration(f.print.timeout)
	}
	if changed("workers") {
		cfg.Print.Workers = f.print.workers
	}
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, stderr io.Writer) (*commandFlags, []string, error) {
	f := newFlagSet("serve", printServeUsage, stderr)
	addServerFlags(f.fs, &f.server)
	addPrintFlags(f.fs, &f.print)
	f.fs.StringVar(&f.highlight, "highlight", "", "code highlight style (chroma name)")
	positional, err := f.parse(args)
	return f, positional, err
}

// parseRenderFlags parses render command flags.
func parseRenderFlags(args []string, stderr io.Writer) (*commandFlags, []string, error) {
	f := newFlagSet("render", printRenderUsage, stderr)
	f.fs.StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	f.fs.StringVarP(&f.format, "format", "f", formatPreview, "output: preview, clipboard, page")
	f.fs.StringVar(&f.highlight, "highlight", "", "code highlight style for --format page")
	positional, err := f.parse(args)
	return f, positional, err
}

// parseCopyFlags parses copy command flags.
func parseCopyFlags(args []string, stderr io.Writer) (*commandFlags, []string, error) {
	f := newFlagSet("copy", printCopyUsage, stderr)
	positional, err := f.parse(args)
	return f, positional, err
}

// parsePrintFlags parses print command flags.
func parsePrintFlags(args []string, stderr io.Writer) (*commandFlags, []string, error) {
	f := newFlagSet("print", printPrintUsage, stderr)
	f.fs.StringVarP(&f.output, "output", "o", "", "output PDF file")
	f.fs.StringVar(&f.highlight, "highlight", "", "code highlight style (chroma name)")
	addPrintFlags(f.fs, &f.print)
	positional, err := f.parse(args)
	return f, positional, err
}
