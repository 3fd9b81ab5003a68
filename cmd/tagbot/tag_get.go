package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	tagCmd.AddCommand(tagGetCmd)
}

var tagGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show a tag",
	Long: `Show a tag's content and attachment URLs. The name is matched
case-insensitively.

Example:
  tagbot tag get RULES --human`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTagNames,
	RunE:              runTagGet,
}

func runTagGet(cmd *cobra.Command, args []string) error {
	store := mustOpenStore()

	t, err := store.Get(args[0])
	if err != nil {
		exitWithStoreError(args[0], err)
	}

	if humanOutput {
		fmt.Print(formatTagHuman(t))
	} else {
		outputJSON(t)
	}
	return nil
}
