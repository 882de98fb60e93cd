package ghostscrub

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate shell completion scripts",
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(w)
			case "zsh":
				return rootCmd.GenZshCompletion(w)
			case "fish":
				return rootCmd.GenFishCompletion(w, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(w)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
		Example: `
# Bash
ghost-scrub completion bash > /etc/bash_completion.d/ghost-scrub

# Zsh
ghost-scrub completion zsh > "${fpath[1]}/_ghost-scrub"

# Fish
ghost-scrub completion fish > ~/.config/fish/completions/ghost-scrub.fish

# PowerShell
ghost-scrub completion powershell > $PROFILE\ghost-scrub.ps1
`,
	}
	rootCmd.AddCommand(cmd)
}
