package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/tagbot/internal/config"
	"github.com/matsen/tagbot/internal/tag"
)

func init() {
	rootCmd.AddCommand(completionCmd)
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate completion scripts for your shell. Tag names are completed
for 'tag get' and 'tag delete'.

Bash:
  $ source <(tagbot completion bash)

Zsh:
  $ tagbot completion zsh > "${fpath[1]}/_tagbot"

Fish:
  $ tagbot completion fish | source

PowerShell:
  PS> tagbot completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
	},
}

// completeTagNames suggests tag names for the first argument, ranked the
// same way as Discord autocomplete.
func completeTagNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	config.LoadDotEnv()
	settings, err := config.Resolve()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	if tagsPathFlag != "" {
		settings.TagsPath = config.ExpandPath(tagsPathFlag)
	}

	names, err := tag.NewStore(settings.TagsPath).List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return tag.Search(names, toComplete, 0), cobra.ShellCompDirectiveNoFileComp
}
