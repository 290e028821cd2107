package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	mdstudio "github.com/alnah/go-mdstudio"
	"github.com/alnah/go-mdstudio/internal/config"
)

// I/O errors of the one-shot commands.
var (
	ErrReadInput   = errors.New("failed to read input")
	ErrWriteOutput = errors.New("failed to write output")
)

const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Render formats.
const (
	formatPreview   = "preview"   // preview fragment, as shown in the studio
	formatClipboard = "clipboard" // inline-styled fragment, as copied
	formatPage      = "page"      // standalone page, as printed
)

// stdinName names documents read from standard input.
const stdinName = "-"

// input is the Markdown source of a one-shot command.
type input struct {
	name string // path, or stdinName
	dir  string // directory of path, for relative images
}

// readInput opens the single positional argument, or stdin when it is
// absent or "-".
func readInput(args []string, env *Environment) (io.ReadCloser, input, error) {
	if len(args) > 1 {
		return nil, input{}, fmt.Errorf("%w: expected one input file, got %d", ErrUsage, len(args))
	}
	if len(args) == 0 || args[0] == stdinName {
		return io.NopCloser(env.Stdin), input{name: stdinName}, nil
	}

	path := args[0]
	f, err := os.Open(path) // #nosec G304 -- input path is user-provided
	if err != nil {
		return nil, input{}, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		dir = filepath.Dir(path)
	}
	return f, input{name: path, dir: dir}, nil
}

// openDocument builds an in-memory Studio holding the input document.
func openDocument(args []string, env *Environment, cfg *config.Config, logger *slog.Logger) (*mdstudio.Studio, input, error) {
	r, in, err := readInput(args, env)
	if err != nil {
		return nil, input{}, err
	}
	defer func() { _ = r.Close() }()

	studio, err := newStudio(cfg, env, logger, studioSetup{sourceDir: in.dir})
	if err != nil {
		return nil, input{}, err
	}
	if _, err := studio.Import(r, in.name); err != nil {
		_ = studio.Close()
		return nil, input{}, err
	}
	logger.Debug("document loaded", "input", in.name)
	return studio, in, nil
}

// writeOutput writes data to path, or to stdout when path is empty or "-".
func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" || path == stdinName {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
	}
	if err := os.WriteFile(path, data, filePermissions); err != nil { // #nosec G306 -- documents are meant to be shared
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// pdfOutputPath derives the PDF path: the input with a .pdf extension, or
// document.pdf for stdin.
func pdfOutputPath(flagOutput string, in input) string {
	if flagOutput != "" {
		return flagOutput
	}
	if in.name == stdinName {
		return "document.pdf"
	}
	return strings.TrimSuffix(in.name, filepath.Ext(in.name)) + ".pdf"
}

// runRender writes the rendered document as HTML.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	switch flags.format {
	case formatPreview, formatClipboard, formatPage:
	default:
		return fmt.Errorf("%w: unknown format %q (must be preview, clipboard, or page)", ErrUsage, flags.format)
	}

	logger := newLogger(env.Stderr, flags.common)
	cfg, err := resolveConfig(env, flags, logger)
	if err != nil {
		return err
	}

	studio, _, err := openDocument(positional, env, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = studio.Close() }()

	var out string
	switch flags.format {
	case formatPreview:
		pv, perr := studio.Preview(ctx)
		out, err = pv.HTML, perr
	case formatClipboard:
		p, perr := studio.ClipboardPayload(ctx)
		out, err = p.HTML, perr
	case formatPage:
		out, err = studio.PrintHTML(ctx)
	}
	if err != nil {
		return err
	}

	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return writeOutput(flags.output, env.Stdout, []byte(out))
}

// runCopy places the rendered document on the system clipboard.
func runCopy(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseCopyFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common)
	cfg, err := resolveConfig(env, flags, logger)
	if err != nil {
		return err
	}

	studio, _, err := openDocument(positional, env, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = studio.Close() }()

	res, err := studio.Copy(ctx)
	if err != nil {
		return err
	}
	logger.Debug("copied", "strategy", res.Strategy, "format", res.Format)
	if !flags.common.quiet {
		fmt.Fprintln(env.Stdout, res.Status)
	}
	return nil
}

// runPrint prints the document to PDF through headless Chrome.
func runPrint(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePrintFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common)
	setMaxProcs(logger)

	cfg, err := resolveConfig(env, flags, logger)
	if err != nil {
		return err
	}

	start := env.Now()
	studio, in, err := openDocument(positional, env, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = studio.Close() }()

	data, err := studio.Print(ctx)
	if err != nil {
		return err
	}

	out := pdfOutputPath(flags.output, in)
	if err := writeOutput(out, env.Stdout, data); err != nil {
		return err
	}
	switch {
	case out == stdinName || flags.common.quiet:
	case flags.common.verbose:
		fmt.Fprintf(env.Stderr, "%s -> %s (%v)\n", in.name, out, env.Now().Sub(start).Round(time.Millisecond))
	default:
		fmt.Fprintf(env.Stdout, "Created %s\n", out)
	}
	return nil
}
