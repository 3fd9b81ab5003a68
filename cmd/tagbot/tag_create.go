package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/tagbot/internal/tag"
)

var (
	tagCreateContent     string
	tagCreateAttachments []string
)

func init() {
	tagCreateCmd.Flags().StringVar(&tagCreateContent, "content", "", "Text to reply with")
	tagCreateCmd.Flags().StringArrayVar(&tagCreateAttachments, "attachment", nil, "Attachment URL to reply with (repeatable)")
	tagCmd.AddCommand(tagCreateCmd)
}

var tagCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a tag",
	Long: `Create a tag with text content, attachment URLs, or both.

Names are unique regardless of case.

Examples:
  tagbot tag create rules --content "Be nice"
  tagbot tag create logo --attachment https://cdn.example.com/logo.png`,
	Args: cobra.ExactArgs(1),
	RunE: runTagCreate,
}

func runTagCreate(cmd *cobra.Command, args []string) error {
	store := mustOpenStore()

	name := args[0]
	created, err := store.Create(name, tag.Record{
		Content:     tagCreateContent,
		Attachments: tagCreateAttachments,
	})
	if err != nil {
		exitWithStoreError(name, err)
	}

	if humanOutput {
		outputHuman("Created tag %s\n", created.Name)
	} else {
		outputJSON(StatusResponse{Status: "created", Name: created.Name})
	}
	return nil
}
