package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdstudio [command] [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Run the Markdown studio in the browser (default)")
	fmt.Fprintln(w, "  render     Render a Markdown file to HTML")
	fmt.Fprintln(w, "  copy       Copy a rendered Markdown file to the clipboard")
	fmt.Fprintln(w, "  print      Print a Markdown file to PDF")
	fmt.Fprintln(w, "  doctor     Check Chrome and clipboard tools")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdstudio help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

// printPageUsage prints the print layout flags.
func printPageUsage(w io.Writer) {
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF generation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -w, --workers <n>         Browser pool size (0 = auto)")
	fmt.Fprintln(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdstudio serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the Markdown studio: an editor with live preview, toolbar,")
	fmt.Fprintln(w, "autosave, import/export, rich copy and printing.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --host <s>            Listen host (default 0.0.0.0, env HOST)")
	fmt.Fprintln(w, "  -p, --port <n>            Listen port (default 3001, env PORT)")
	fmt.Fprintln(w, "      --root <dir>          Serve the web client from a directory")
	fmt.Fprintln(w, "      --highlight <s>       Code highlight style (default github)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Storage:")
	fmt.Fprintln(w, "      --store <path>        Document database file")
	fmt.Fprintln(w, "      --ephemeral           Keep the document in memory only")
	fmt.Fprintln(w, "      --autosave-delay <d>  Quiet period before saving (default 400ms)")
	fmt.Fprintln(w)
	printPageUsage(w)
	printCommonUsage(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdstudio render [file|-] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render Markdown to HTML. Reads stdin when no file is given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default stdout)")
	fmt.Fprintln(w, "  -f, --format <s>          preview:   fragment shown in the studio")
	fmt.Fprintln(w, "                            clipboard: fragment with inline styles")
	fmt.Fprintln(w, "                            page:      standalone printable page")
	fmt.Fprintln(w, "      --highlight <s>       Code highlight style for --format page")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printCopyUsage prints usage for the copy command.
func printCopyUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdstudio copy [file|-] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Copy rendered Markdown to the system clipboard with formatting")
	fmt.Fprintln(w, "(wl-copy or xclip), falling back to plain text, then to OSC 52.")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printPrintUsage prints usage for the print command.
func printPrintUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdstudio print [file|-] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print Markdown to PDF with headless Chrome.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output PDF (default <file>.pdf, - for stdout)")
	fmt.Fprintln(w, "      --highlight <s>       Code highlight style (default github)")
	fmt.Fprintln(w)
	printPageUsage(w)
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdstudio doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, clipboard tools and the document store.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "copy":
		printCopyUsage(env.Stdout)
	case "print":
		printPrintUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdstudio version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdstudio help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
