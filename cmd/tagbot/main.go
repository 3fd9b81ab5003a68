// Package main provides the tagbot CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/tagbot/internal/config"
	"github.com/matsen/tagbot/internal/tag"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

var (
	tagsPathFlag string
	debugFlag    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set, so cobra errors (missing args etc.) are printed here
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tagbot",
	Short: "Discord bot for named text and attachment snippets",
	Long: `tagbot serves Discord slash commands for storing and recalling tags:
named snippets of text and/or attachments.

  /createtag  create a tag from a message and/or an attachment
  /tag        display a tag (with autocomplete)
  /deletetag  delete a tag (with autocomplete)
  /listtags   list every tag

Tags live in a single JSON file (tags.json by default). The 'tag' subcommands
operate on the same file from a terminal. All commands output JSON by default.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&tagsPathFlag, "tags", "", "Path to the tags file (overrides config and TAGBOT_TAGS_PATH)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.Version = Version
}

// mustResolveSettings loads .env, the global config and flag overrides,
// exits on error.
func mustResolveSettings() *config.Settings {
	config.LoadDotEnv()

	settings, err := config.Resolve()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if tagsPathFlag != "" {
		settings.TagsPath = config.ExpandPath(tagsPathFlag)
	}
	if debugFlag {
		settings.Debug = true
	}
	return settings
}

// mustOpenStore returns the tag store for the configured tags file.
func mustOpenStore() *tag.Store {
	return tag.NewStore(mustResolveSettings().TagsPath)
}
