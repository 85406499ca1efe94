package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell
// completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for graphscape.

The script completes subcommands and flags, including the render and export
source flags. To load it:

Bash:
  $ source <(graphscape completion bash)

  # To load on every session (Linux):
  $ graphscape completion bash > /etc/bash_completion.d/graphscape
  # macOS with Homebrew:
  $ graphscape completion bash > $(brew --prefix)/etc/bash_completion.d/graphscape

Zsh:
  # Enable completion once if you have not already:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # Then install the script into your fpath:
  $ graphscape completion zsh > "${fpath[1]}/_graphscape"

Fish:
  $ graphscape completion fish | source

  # To load on every session:
  $ graphscape completion fish > ~/.config/fish/completions/graphscape.fish

PowerShell:
  PS> graphscape completion powershell | Out-String | Invoke-Expression

  # To load on every session, save the script and source it from your
  # PowerShell profile:
  PS> graphscape completion powershell > graphscape.ps1
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
