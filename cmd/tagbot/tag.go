package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tagCmd)
}

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags from the command line",
	Long: `Manage the tags file directly, without connecting to Discord.

Subcommands:
  create   Create a tag
  get      Show a tag
  delete   Delete a tag
  list     List all tag names
  search   Search tag names the way autocomplete does
  check    Verify the tags file can be read`,
}
