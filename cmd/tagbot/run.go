package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/tagbot/internal/command"
	"github.com/matsen/tagbot/internal/config"
	"github.com/matsen/tagbot/internal/discord"
	"github.com/matsen/tagbot/internal/logger"
	"github.com/matsen/tagbot/internal/tag"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and serve tag commands",
	Long: `Connect to Discord and serve the /tag, /createtag, /deletetag and
/listtags slash commands until interrupted.

The bot token is read from DISCORD_TOKEN (a .env file in the working directory
is loaded first) or from discord_token in the global config file.

Example:
  DISCORD_TOKEN=... tagbot run --tags ./tags.json`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	settings := mustResolveSettings()
	if err := settings.ValidateToken(); err != nil {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}

	log, err := logger.New(settings.Debug)
	if err != nil {
		exitWithError(ExitError, "creating logger: %v", err)
	}
	defer logger.Sync(log)

	store := tag.NewStore(settings.TagsPath)
	if err := store.Refresh(); err != nil {
		// Keep serving; every command reports the generic error until the file is fixed.
		log.Error("loading tags", zap.String("path", store.Path()), zap.Error(err))
	}

	router := command.NewRouter(store, log)
	bot, err := discord.New(discord.Config{
		Token:   settings.DiscordToken,
		GuildID: settings.GuildID,
	}, router, store, discord.NewFetcher(), log)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := tag.Watch(ctx, store, log); err != nil {
			log.Warn("tags file watcher stopped", zap.String("path", store.Path()), zap.Error(err))
		}
	}()

	log.Info("starting bot", zap.String("tags", store.Path()), zap.String("guild", settings.GuildID))
	if err := bot.Run(ctx); err != nil {
		log.Error("bot stopped", zap.Error(err))
		return err
	}
	return nil
}
