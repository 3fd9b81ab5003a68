package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/tagbot/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long: `Show the configuration tagbot would run with, after merging the
global config file, environment variables (including .env) and flags.

The Discord token is masked.

Config file: $XDG_CONFIG_HOME/tagbot/config.yml (default ~/.config/tagbot/config.yml)

Keys:
  discord_token  Bot token (prefer DISCORD_TOKEN)
  guild_id       Register commands in one server instead of globally
  tags_path      Path to the tags file
  debug          Enable debug logging`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	ConfigFile string `json:"config_file"`
	config.Settings
}

func runConfig(cmd *cobra.Command, args []string) error {
	settings := mustResolveSettings().Masked()

	if humanOutput {
		fmt.Printf("config-file:   %s\n", config.GlobalConfigPath())
		fmt.Printf("discord-token: %s\n", settings.DiscordToken)
		fmt.Printf("guild-id:      %s\n", settings.GuildID)
		fmt.Printf("tags-path:     %s\n", settings.TagsPath)
		fmt.Printf("debug:         %t\n", settings.Debug)
	} else {
		outputJSON(ConfigResponse{
			ConfigFile: config.GlobalConfigPath(),
			Settings:   settings,
		})
	}
	return nil
}
