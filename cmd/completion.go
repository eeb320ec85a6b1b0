package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCmd represents the completion command.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for glowtrack.

To load completions:

Bash:
  $ source <(glowtrack completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ glowtrack completion bash > /etc/bash_completion.d/glowtrack
  # macOS:
  $ glowtrack completion bash > $(brew --prefix)/etc/bash_completion.d/glowtrack

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ glowtrack completion zsh > "${fpath[1]}/_glowtrack"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ glowtrack completion fish | source

  # To load completions for each session, execute once:
  $ glowtrack completion fish > ~/.config/fish/completions/glowtrack.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Annotations:           map[string]string{annotationNoRuntime: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
