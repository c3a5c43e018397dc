package cli

import (
	"github.com/spf13/cobra"
)

// treeFileExts are the extensions offered when completing a tree or class
// file argument.
var treeFileExts = []string{"json", "yaml", "yml"}

// completeFileArg completes the first positional argument with files having
// one of exts and offers nothing for later arguments, which are class ids or
// search queries.
func completeFileArg(exts ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}

// completionCommand prints a completion script for the given shell.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for ontoview.

Tree and class file arguments complete to .json, .yaml and .yml files.

  $ source <(ontoview completion bash)
  $ ontoview completion zsh > "${fpath[1]}/_ontoview"
  $ ontoview completion fish > ~/.config/fish/completions/ontoview.fish
  PS> ontoview completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
