package cli

import (
	"bytes"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			root := New(io.Discard, LogInfo).RootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})

			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("%s script does not mention %s", shell, appName)
			}
		})
	}
}

func TestCompletionRejectsUnknownShell(t *testing.T) {
	if err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}

func TestCompleteFileArg(t *testing.T) {
	complete := completeFileArg(treeFileExts...)

	got, directive := complete(nil, nil, "")
	if directive != cobra.ShellCompDirectiveFilterFileExt || !slices.Equal(got, treeFileExts) {
		t.Errorf("first arg = %v, %v; want tree file extensions", got, directive)
	}

	got, directive = complete(nil, []string{"pizza.tree.json"}, "Mar")
	if directive != cobra.ShellCompDirectiveNoFileComp || len(got) != 0 {
		t.Errorf("second arg = %v, %v; want no completion", got, directive)
	}
}

func TestTreeCommandsCompleteFiles(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"import", "layout", "browse", "search", "path"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil {
			t.Fatalf("find %s: %v", name, err)
		}
		if cmd.ValidArgsFunction == nil {
			t.Errorf("%s has no argument completion", name)
		}
	}
}
