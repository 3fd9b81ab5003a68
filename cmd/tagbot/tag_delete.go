package main

import (
	"github.com/spf13/cobra"
)

func init() {
	tagCmd.AddCommand(tagDeleteCmd)
}

var tagDeleteCmd = &cobra.Command{
	Use:               "delete <name>",
	Short:             "Delete a tag",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTagNames,
	RunE:              runTagDelete,
}

func runTagDelete(cmd *cobra.Command, args []string) error {
	store := mustOpenStore()

	removed, err := store.Delete(args[0])
	if err != nil {
		exitWithStoreError(args[0], err)
	}

	if humanOutput {
		outputHuman("Deleted tag %s\n", removed.Name)
	} else {
		outputJSON(StatusResponse{Status: "deleted", Name: removed.Name})
	}
	return nil
}
