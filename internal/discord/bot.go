// Package discord connects the command router to Discord slash commands.
package discord

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/matsen/tagbot/internal/command"
)

// ListeningTo is the presence shown while online ("Listening to /tag").
const ListeningTo = "/tag"

// maxChoiceLength is Discord's limit on autocomplete choice names and values.
const maxChoiceLength = 100

// Config holds the connection settings for the bot.
type Config struct {
	Token string
	// GuildID scopes command registration to one server. Empty registers
	// commands globally.
	GuildID string
}

// responder is the part of *discordgo.Session used to answer interactions.
type responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionResponseDelete(interaction *discordgo.Interaction, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Refresher reloads the autocomplete mirror.
type Refresher interface {
	Refresh() error
}

// Bot answers slash commands and autocomplete requests.
type Bot struct {
	session   *discordgo.Session
	responder responder
	router    *command.Router
	mirror    Refresher
	fetcher   *Fetcher
	guildID   string
	log       *zap.Logger
}

// New creates a bot. The gateway connection is opened by Run.
func New(cfg Config, router *command.Router, mirror Refresher, fetcher *Fetcher, log *zap.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}

	// Slash commands need no gateway intents.
	session.Identify.Intents = 0
	// Handle one interaction at a time; the tag store assumes a single writer.
	session.SyncEvents = true

	return &Bot{
		session:   session,
		responder: session,
		router:    router,
		mirror:    mirror,
		fetcher:   fetcher,
		guildID:   cfg.GuildID,
		log:       log,
	}, nil
}

// Run opens the gateway connection and serves interactions until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening gateway connection: %w", err)
	}

	<-ctx.Done()
	b.log.Info("shutting down")
	if err := b.session.Close(); err != nil {
		return fmt.Errorf("closing gateway connection: %w", err)
	}
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info(fmt.Sprintf("%s is online!", r.User.String()))

	if err := b.mirror.Refresh(); err != nil {
		b.log.Error("loading tags", zap.Error(err))
	}

	if _, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, b.guildID, Commands()); err != nil {
		b.log.Error("registering commands", zap.String("guild", b.guildID), zap.Error(err))
	}

	if err := s.UpdateListeningStatus(ListeningTo); err != nil {
		b.log.Warn("setting presence", zap.Error(err))
	}
}

func (b *Bot) onInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	b.handleInteraction(i.Interaction)
}

// handleInteraction never lets a failure escape: command errors become the
// generic notice, autocomplete errors are only logged.
func (b *Bot) handleInteraction(i *discordgo.Interaction) {
	defer func() {
		if rec := recover(); rec != nil {
			b.log.Error("panic handling interaction", zap.Any("panic", rec), zap.Stack("stack"))
			if i.Type == discordgo.InteractionApplicationCommand {
				generic := command.Reply{Content: command.MsgGenericError, Ephemeral: true}
				if err := b.respond(i, generic); err != nil {
					b.log.Error("responding after panic", zap.Error(err))
				}
			}
		}
	}()

	switch i.Type {
	case discordgo.InteractionApplicationCommandAutocomplete:
		b.handleAutocomplete(i)
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(i)
	}
}

func (b *Bot) handleCommand(i *discordgo.Interaction) {
	data := i.ApplicationCommandData()
	req := requestFromCommand(data)
	b.log.Debug("command received", zap.String("command", req.Command))

	reply := b.router.Handle(req)
	if len(reply.Files) == 0 {
		if err := b.respond(i, reply); err != nil {
			b.log.Error("responding to command", zap.String("command", req.Command), zap.Error(err))
		}
		return
	}

	// Downloads can outlast the interaction deadline, so acknowledge first.
	deferred := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredChannelMessageWithSource}
	if err := b.responder.InteractionRespond(i, deferred); err != nil {
		b.log.Error("deferring command response", zap.String("command", req.Command), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultFetchTimeout)
	defer cancel()

	files, err := b.fetcher.FetchAll(ctx, reply.Files)
	if err != nil {
		b.log.Error("fetching tag attachments", zap.String("command", req.Command), zap.Error(err))
		if err := b.replaceWithGenericError(i); err != nil {
			b.log.Error("reporting attachment failure", zap.String("command", req.Command), zap.Error(err))
		}
		return
	}

	content := reply.Content
	edit := &discordgo.WebhookEdit{
		Content:         &content,
		Files:           files,
		AllowedMentions: noMentions(),
	}
	if _, err := b.responder.InteractionResponseEdit(i, edit); err != nil {
		b.log.Error("completing command response", zap.String("command", req.Command), zap.Error(err))
	}
}

// replaceWithGenericError swaps a deferred public response for an ephemeral
// error notice.
func (b *Bot) replaceWithGenericError(i *discordgo.Interaction) error {
	if err := b.responder.InteractionResponseDelete(i); err != nil {
		return fmt.Errorf("deleting deferred response: %w", err)
	}
	_, err := b.responder.FollowupMessageCreate(i, false, &discordgo.WebhookParams{
		Content:         command.MsgGenericError,
		Flags:           discordgo.MessageFlagsEphemeral,
		AllowedMentions: noMentions(),
	})
	return err
}

func (b *Bot) handleAutocomplete(i *discordgo.Interaction) {
	data := i.ApplicationCommandData()
	names := b.router.Autocomplete(data.Name, focusedValue(data.Options))

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices(names)},
	}
	if err := b.responder.InteractionRespond(i, resp); err != nil {
		b.log.Error("responding to autocomplete", zap.String("command", data.Name), zap.Error(err))
	}
}

func (b *Bot) respond(i *discordgo.Interaction, reply command.Reply) error {
	data := &discordgo.InteractionResponseData{
		Content:         reply.Content,
		AllowedMentions: noMentions(),
	}
	if reply.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return b.responder.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func noMentions() *discordgo.MessageAllowedMentions {
	return &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}}
}

// requestFromCommand flattens slash command options into a router request.
func requestFromCommand(data discordgo.ApplicationCommandInteractionData) command.Request {
	req := command.Request{
		Command: data.Name,
		Options: make(map[string]string, len(data.Options)),
	}
	for _, opt := range data.Options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionString:
			req.Options[opt.Name] = opt.StringValue()
		case discordgo.ApplicationCommandOptionAttachment:
			id, _ := opt.Value.(string)
			if data.Resolved == nil {
				continue
			}
			if att, ok := data.Resolved.Attachments[id]; ok && att != nil {
				req.Attachment = &command.Attachment{URL: att.URL, Filename: att.Filename}
			}
		}
	}
	return req
}

// focusedValue returns the partial input of the option being typed.
func focusedValue(opts []*discordgo.ApplicationCommandInteractionDataOption) string {
	for _, opt := range opts {
		if opt.Focused {
			value, _ := opt.Value.(string)
			return value
		}
	}
	return ""
}

// choices converts names to autocomplete choices, skipping names Discord
// would reject as values.
func choices(names []string) []*discordgo.ApplicationCommandOptionChoice {
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(names))
	for _, name := range names {
		if utf8.RuneCountInString(name) > maxChoiceLength {
			continue
		}
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name})
	}
	return out
}
