package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/matsen/tagbot/internal/command"
)

// Commands returns the slash command schema registered on startup.
func Commands() []*discordgo.ApplicationCommand {
	noDM := false
	return []*discordgo.ApplicationCommand{
		{
			Name:         command.CmdCreateTag,
			Description:  "Creates a tag",
			Type:         discordgo.ChatApplicationCommand,
			DMPermission: &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        command.OptName,
					Description: "The name of the tag",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        command.OptContent,
					Description: "The message to return as the output",
				},
				{
					Type:        discordgo.ApplicationCommandOptionAttachment,
					Name:        command.OptAttachment,
					Description: "The attachment to return as the output",
				},
			},
		},
		{
			Name:         command.CmdDeleteTag,
			Description:  "Deletes a tag",
			Type:         discordgo.ChatApplicationCommand,
			DMPermission: &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         command.OptTag,
					Description:  "The tag to delete",
					Autocomplete: true,
					Required:     true,
				},
			},
		},
		{
			Name:        command.CmdListTags,
			Description: "Lists all available tags",
			Type:        discordgo.ChatApplicationCommand,
		},
		{
			Name:        command.CmdTag,
			Description: "Displays a tag",
			Type:        discordgo.ChatApplicationCommand,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         command.OptTag,
					Description:  "The tag to get information about",
					Autocomplete: true,
					Required:     true,
				},
			},
		},
	}
}
