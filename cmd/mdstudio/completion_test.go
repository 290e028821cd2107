package main

// Notes:
// - GenerateCompletion: we check scripts for expected content markers, not
//   that they run in the target shell.

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func findCommand(t *testing.T, name string) commandDef {
	t.Helper()
	for _, c := range getCommands() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("command %q not found", name)
	return commandDef{}
}

func findFlag(flags []flagDef, long string) (flagDef, bool) {
	for _, f := range flags {
		if f.Long == long {
			return f, true
		}
	}
	return flagDef{}, false
}

// ---------------------------------------------------------------------------
// TestGenerateCompletion - shell scripts
// ---------------------------------------------------------------------------

func TestGenerateCompletion_SupportedShells(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		shell        Shell
		wantContains []string
	}{
		{
			name:  "bash",
			shell: ShellBash,
			wantContains: []string{
				"_mdstudio_completions",
				"complete -o filenames -F _mdstudio_completions mdstudio",
				"compgen",
				"render)",
				"-f|--format) COMPREPLY=($(compgen -W \"preview clipboard page\"",
				"--root) COMPREPLY=($(compgen -d",
				"!*.@(md|markdown)",
				"!*.@(yaml|yml)",
			},
		},
		{
			name:  "zsh",
			shell: ShellZsh,
			wantContains: []string{
				"#compdef mdstudio",
				"_describe 'command' commands",
				"_arguments",
				"'(-o --output)'{-o,--output}",
				"'--ephemeral[keep the document in memory only]'",
				":page-size:(letter a4 legal)",
				`'*:file:_files -g "*.(md|markdown)"'`,
			},
		},
		{
			name:  "fish",
			shell: ShellFish,
			wantContains: []string{
				"complete -c mdstudio",
				"__fish_mdstudio_needs_command",
				"__fish_mdstudio_using_command print",
				"-s o -l output",
				"-l page-size -x -a 'letter a4 legal'",
				"(__fish_complete_suffix .md)",
			},
		},
		{
			name:  "powershell",
			shell: ShellPowerShell,
			wantContains: []string{
				"Register-ArgumentCompleter",
				"-CommandName mdstudio",
				"CompletionResult",
				"'serve' = @(",
				"'--port'",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion(%q) error: %v", tt.shell, err)
			}
			out := buf.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q", want)
				}
			}
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()

	for _, shell := range []Shell{"", "sh", "ksh", "unknown"} {
		t.Run(string(shell), func(t *testing.T) {
			t.Parallel()

			err := GenerateCompletion(&bytes.Buffer{}, shell)
			if !errors.Is(err, ErrUnsupportedShell) {
				t.Fatalf("error = %v, want ErrUnsupportedShell", err)
			}
			if !strings.Contains(err.Error(), `"`+string(shell)+`"`) {
				t.Errorf("error should name the shell: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunCompletion - command entry point
// ---------------------------------------------------------------------------

func TestRunCompletion(t *testing.T) {
	t.Parallel()

	t.Run("no args prints usage", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t, "")
		if err := runCompletion(context.Background(), nil, te.Environment); err != nil {
			t.Fatalf("runCompletion() error: %v", err)
		}
		if !strings.Contains(te.stdout.String(), "Usage: mdstudio completion") {
			t.Errorf("stdout = %q", te.stdout.String())
		}
	})

	t.Run("unsupported shell exits with usage", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t, "")
		if code := runMain([]string{"mdstudio", "completion", "tcsh"}, te.Environment); code != ExitUsage {
			t.Errorf("exit = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("too many args", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t, "")
		err := runCompletion(context.Background(), []string{"bash", "zsh"}, te.Environment)
		if !errors.Is(err, ErrUsage) {
			t.Errorf("error = %v, want ErrUsage", err)
		}
	})

	t.Run("bash through runMain", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t, "")
		if code := runMain([]string{"mdstudio", "completion", "bash"}, te.Environment); code != ExitSuccess {
			t.Fatalf("exit = %d, want %d", code, ExitSuccess)
		}
		if !strings.Contains(te.stdout.String(), "_mdstudio_completions") {
			t.Error("stdout has no bash script")
		}
	})
}

// ---------------------------------------------------------------------------
// TestGetCommands - registry built from the flag sets
// ---------------------------------------------------------------------------

func TestGetCommands_Names(t *testing.T) {
	t.Parallel()

	want := []string{"serve", "render", "copy", "print", "doctor", "version", "help", "completion"}
	got := commandNames(getCommands())
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("commands = %v, want %v", got, want)
	}

	help := findCommand(t, "help")
	if strings.Join(help.Args, ",") != strings.Join(want, ",") {
		t.Errorf("help args = %v, want %v", help.Args, want)
	}
}

func TestGetCommands_FlagTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command   string
		flag      string
		wantShort string
		wantType  flagType
		wantGlob  string
	}{
		{"serve", "port", "p", flagInt, ""},
		{"serve", "ephemeral", "", flagBool, ""},
		{"serve", "root", "", flagDir, ""},
		{"serve", "store", "", flagFile, "*.db"},
		{"serve", "config", "c", flagFile, "*.yaml,*.yml"},
		{"serve", "margin", "", flagFloat, ""},
		{"render", "format", "f", flagEnum, ""},
		{"render", "output", "o", flagFile, ""},
		{"print", "page-size", "", flagEnum, ""},
		{"print", "highlight", "", flagEnum, ""},
		{"print", "timeout", "t", flagString, ""},
		{"copy", "quiet", "q", flagBool, ""},
	}

	for _, tt := range tests {
		t.Run(tt.command+"/"+tt.flag, func(t *testing.T) {
			t.Parallel()

			f, ok := findFlag(findCommand(t, tt.command).Flags, tt.flag)
			if !ok {
				t.Fatalf("missing flag --%s", tt.flag)
			}
			if f.Short != tt.wantShort {
				t.Errorf("short = %q, want %q", f.Short, tt.wantShort)
			}
			if f.Type != tt.wantType {
				t.Errorf("type = %v, want %v", f.Type, tt.wantType)
			}
			if f.FileGlob != tt.wantGlob {
				t.Errorf("glob = %q, want %q", f.FileGlob, tt.wantGlob)
			}
		})
	}
}

func TestGetCommands_HighlightListsChromaStyles(t *testing.T) {
	t.Parallel()

	f, ok := findFlag(findCommand(t, "print").Flags, "highlight")
	if !ok {
		t.Fatal("missing --highlight")
	}
	found := false
	for _, v := range f.Values {
		found = found || v == "github"
	}
	if !found {
		t.Errorf("highlight values %v lack github", f.Values)
	}
}

func TestGetCommands_DocumentCommandsTakeMarkdown(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"render", "copy", "print"} {
		c := findCommand(t, name)
		if !c.TakesFiles || c.FilePattern != markdownFiles {
			t.Errorf("%s: TakesFiles=%v FilePattern=%q", name, c.TakesFiles, c.FilePattern)
		}
	}
	if findCommand(t, "serve").TakesFiles {
		t.Error("serve should not take files")
	}
}

func TestGlobExtensions(t *testing.T) {
	t.Parallel()

	got := globExtensions("*.yaml, *.yml,")
	if strings.Join(got, "|") != "yaml|yml" {
		t.Errorf("globExtensions() = %v", got)
	}
}

func TestZshEscape(t *testing.T) {
	t.Parallel()

	if got, want := zshEscape("it's [a:b]"), `it'\''s \[a\:b\]`; got != want {
		t.Errorf("zshEscape() = %q, want %q", got, want)
	}
}
