package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file, optionally filtered by glob
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags, empty matches any file
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed words accepted as arguments
	TakesFiles  bool     // accepts file arguments
	FilePattern string   // glob for file arguments (e.g., "*.md")
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   func() []string // enum values
	FileGlob string          // file glob pattern
	IsFile   bool            // any file
	IsDir    bool            // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"page-size": {Values: func() []string { return []string{"letter", "a4", "legal"} }},
	"format":    {Values: func() []string { return []string{formatPreview, formatClipboard, formatPage} }},
	"highlight": {Values: styles.Names},

	"config": {FileGlob: "*.yaml,*.yml"},
	"store":  {FileGlob: "*.db"},
	"output": {IsFile: true},

	"root": {IsDir: true},
}

// markdownFiles is the argument pattern of document commands.
const markdownFiles = "*.md,*.markdown"

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case meta.Values != nil:
				fd.Type = flagEnum
				fd.Values = meta.Values()
			case meta.FileGlob != "" || meta.IsFile:
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// commandFlagSet returns the registered flags of a command.
func commandFlagSet(parse func([]string, io.Writer) (*commandFlags, []string, error)) []flagDef {
	f, _, _ := parse(nil, io.Discard)
	return extractFlagsFromFlagSet(f.fs)
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets.
func getCommands() []commandDef {
	names := []string{"serve", "render", "copy", "print", "doctor", "version", "help", "completion"}

	return []commandDef{
		{
			Name:  "serve",
			Desc:  "Run the Markdown studio in the browser",
			Flags: commandFlagSet(parseServeFlags),
		},
		{
			Name:        "render",
			Desc:        "Render a Markdown file to HTML",
			Flags:       commandFlagSet(parseRenderFlags),
			TakesFiles:  true,
			FilePattern: markdownFiles,
		},
		{
			Name:        "copy",
			Desc:        "Copy a rendered Markdown file to the clipboard",
			Flags:       commandFlagSet(parseCopyFlags),
			TakesFiles:  true,
			FilePattern: markdownFiles,
		},
		{
			Name:        "print",
			Desc:        "Print a Markdown file to PDF",
			Flags:       commandFlagSet(parsePrintFlags),
			TakesFiles:  true,
			FilePattern: markdownFiles,
		},
		{
			Name:  "doctor",
			Desc:  "Check Chrome and clipboard tools",
			Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "machine-readable output"}},
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name: "help",
			Desc: "Show help for a command",
			Args: names,
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)},
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = generateBash(getCommands())
	case ShellZsh:
		script = generateZsh(getCommands())
	case ShellFish:
		script = generateFish(getCommands())
	case ShellPowerShell:
		script = generatePowerShell(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(_ context.Context, args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: completion takes one shell, got %d arguments", ErrUsage, len(args))
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdstudio completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(mdstudio completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(mdstudio completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    mdstudio completion fish > ~/.config/fish/completions/mdstudio.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    mdstudio completion powershell | Out-String | Invoke-Expression")
}

// ---------------------------------------------------------------------------
// Script generators
// ---------------------------------------------------------------------------

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// flagWords returns the long and short spellings of every flag.
func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// globExtensions turns "*.yaml,*.yml" into ["yaml", "yml"].
func globExtensions(glob string) []string {
	var exts []string
	for _, p := range strings.Split(glob, ",") {
		if ext := strings.TrimPrefix(strings.TrimSpace(p), "*."); ext != "" {
			exts = append(exts, ext)
		}
	}
	return exts
}

func generateBash(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# bash completion for mdstudio\n\n")
	b.WriteString("_mdstudio_completions() {\n")
	b.WriteString("  local cur prev cmd\n")
	b.WriteString("  cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("  prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("  cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("  if [[ $COMP_CWORD -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "    COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("    return\n  fi\n\n")
	b.WriteString("  case \"$cmd\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)

		var valueCases []string
		for _, f := range c.Flags {
			if f.Type == flagBool {
				continue
			}
			pattern := "--" + f.Long
			if f.Short != "" {
				pattern = "-" + f.Short + "|" + pattern
			}
			var reply string
			switch f.Type {
			case flagEnum:
				reply = fmt.Sprintf("COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))", strings.Join(f.Values, " "))
			case flagFile:
				if exts := globExtensions(f.FileGlob); len(exts) > 0 {
					reply = fmt.Sprintf("COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"$cur\"))", strings.Join(exts, "|"))
				} else {
					reply = "COMPREPLY=($(compgen -f -- \"$cur\"))"
				}
			case flagDir:
				reply = "COMPREPLY=($(compgen -d -- \"$cur\"))"
			default:
				reply = "COMPREPLY=()"
			}
			valueCases = append(valueCases, fmt.Sprintf("        %s) %s; return ;;\n", pattern, reply))
		}
		if len(valueCases) > 0 {
			b.WriteString("      case \"$prev\" in\n")
			for _, vc := range valueCases {
				b.WriteString(vc)
			}
			b.WriteString("      esac\n")
		}

		if len(c.Flags) > 0 {
			b.WriteString("      if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(flagWords(c.Flags), " "))
			b.WriteString("        return\n      fi\n")
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "      COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(c.Args, " "))
		case c.TakesFiles:
			fmt.Fprintf(&b, "      COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"$cur\"))\n", strings.Join(globExtensions(c.FilePattern), "|"))
		}
		b.WriteString("      ;;\n")
	}

	b.WriteString("  esac\n}\n\n")
	b.WriteString("complete -o filenames -F _mdstudio_completions mdstudio\n")
	return b.String()
}

// zshEscape escapes text for use inside a single-quoted _arguments spec.
func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

func zshAction(f flagDef) string {
	switch f.Type {
	case flagBool:
		return ""
	case flagEnum:
		return fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		if exts := globExtensions(f.FileGlob); len(exts) > 0 {
			return fmt.Sprintf(`:file:_files -g "*.(%s)"`, strings.Join(exts, "|"))
		}
		return ":file:_files"
	case flagDir:
		return ":directory:_files -/"
	default:
		return fmt.Sprintf(":%s: ", f.Long)
	}
}

func generateZsh(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("#compdef mdstudio\n\n")
	b.WriteString("_mdstudio() {\n")
	b.WriteString("  local -a commands\n")
	b.WriteString("  commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("  )\n\n")
	b.WriteString("  if (( CURRENT == 2 )); then\n")
	b.WriteString("    _describe 'command' commands\n")
	b.WriteString("    return\n  fi\n\n")
	b.WriteString("  words=(${words[2,-1]})\n")
	b.WriteString("  (( CURRENT-- ))\n\n")
	b.WriteString("  case $words[1] in\n")

	for _, c := range cmds {
		var specs []string
		for _, f := range c.Flags {
			desc := "[" + zshEscape(f.Desc) + "]" + zshAction(f)
			if f.Short != "" {
				specs = append(specs, fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s'", f.Short, f.Long, f.Short, f.Long, desc))
			} else {
				specs = append(specs, fmt.Sprintf("'--%s%s'", f.Long, desc))
			}
		}
		switch {
		case len(c.Args) > 0:
			specs = append(specs, fmt.Sprintf("'1:argument:(%s)'", strings.Join(c.Args, " ")))
		case c.TakesFiles:
			specs = append(specs, fmt.Sprintf(`'*:file:_files -g "*.(%s)"'`, strings.Join(globExtensions(c.FilePattern), "|")))
		}
		if len(specs) == 0 {
			continue
		}

		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("      _arguments \\\n        ")
		b.WriteString(strings.Join(specs, " \\\n        "))
		b.WriteString("\n      ;;\n")
	}

	b.WriteString("  esac\n}\n\n")
	b.WriteString("compdef _mdstudio mdstudio\n")
	return b.String()
}

// fishEscape escapes text for a single-quoted fish string.
func fishEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s)
}

func generateFish(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# fish completion for mdstudio\n\n")
	b.WriteString("function __fish_mdstudio_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_mdstudio_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c mdstudio -f\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c mdstudio -n __fish_mdstudio_needs_command -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}

	for _, c := range cmds {
		cond := fmt.Sprintf("-n '__fish_mdstudio_using_command %s'", c.Name)
		b.WriteString("\n")
		for _, f := range c.Flags {
			line := "complete -c mdstudio " + cond
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				if exts := globExtensions(f.FileGlob); len(exts) > 0 {
					line += fmt.Sprintf(" -x -a '(__fish_complete_suffix .%s)'", exts[0])
				} else {
					line += " -r -F"
				}
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			default:
				line += " -x"
			}
			line += fmt.Sprintf(" -d '%s'", fishEscape(f.Desc))
			b.WriteString(line + "\n")
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "complete -c mdstudio %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		case c.TakesFiles:
			for _, ext := range globExtensions(c.FilePattern) {
				fmt.Fprintf(&b, "complete -c mdstudio %s -a '(__fish_complete_suffix .%s)'\n", cond, ext)
			}
		}
	}
	return b.String()
}

func generatePowerShell(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# PowerShell completion for mdstudio\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName mdstudio -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $commands = @{\n")

	sorted := append([]commandDef(nil), cmds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for _, c := range sorted {
		words := append(flagWords(c.Flags), c.Args...)
		quoted := make([]string, len(words))
		for i, w := range words {
			quoted[i] = "'" + w + "'"
		}
		fmt.Fprintf(&b, "        '%s' = @(%s)\n", c.Name, strings.Join(quoted, ", "))
	}
	b.WriteString("    }\n\n")
	b.WriteString("    $words = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n")
	b.WriteString("    if ($words.Count -le 1 -or ($words.Count -eq 2 -and $wordToComplete -ne '')) {\n")
	b.WriteString("        $commands.Keys | Where-Object { $_ -like \"$wordToComplete*\" } | Sort-Object | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $candidates = $commands[$words[1]]\n")
	b.WriteString("    if ($candidates) {\n")
	b.WriteString("        $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}
