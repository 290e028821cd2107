// Command mdstudio runs the Markdown studio in the browser and offers its
// rendering, copy and print pipelines from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// commandFunc runs one command until done or ctx is cancelled.
type commandFunc func(ctx context.Context, args []string, env *Environment) error

// commands maps command names to their implementation.
var commands = map[string]commandFunc{
	"serve":  runServe,
	"render": runRender,
	"copy":   runCopy,
	"print":  runPrint,

	"completion": runCompletion,
}

// runMain dispatches args to a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	name, rest := splitCommand(args)

	switch name {
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdstudio %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", name)
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	err := cmd(ctx, rest, env)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, env.Getenv))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// splitCommand separates the command name from its arguments. Without a
// command, or when the first argument is a flag, the command is serve.
func splitCommand(args []string) (string, []string) {
	if len(args) > 0 {
		args = args[1:] // program name
	}
	if len(args) == 0 || (strings.HasPrefix(args[0], "-") && !isTopLevelFlag(args[0])) {
		return "serve", args
	}
	return args[0], args[1:]
}

// isTopLevelFlag reports flags handled before command dispatch.
func isTopLevelFlag(arg string) bool {
	switch arg {
	case "-h", "--help", "--version":
		return true
	}
	return false
}
