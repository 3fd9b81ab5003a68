package main

import (
	"github.com/spf13/cobra"
)

func init() {
	tagCmd.AddCommand(tagCheckCmd)
}

var tagCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the tags file can be read",
	Long: `Verify the tags file parses. A missing file is fine and counts as no tags.

Exits with code 3 if the file is corrupt.`,
	Args: cobra.NoArgs,
	RunE: runTagCheck,
}

func runTagCheck(cmd *cobra.Command, args []string) error {
	store := mustOpenStore()

	n, err := store.Check()
	if err != nil {
		exitWithStoreError("", err)
	}

	if humanOutput {
		outputHuman("%s: ok (%d tags)\n", store.Path(), n)
	} else {
		outputJSON(StatusResponse{Status: "ok", Path: store.Path(), Tags: &n})
	}
	return nil
}
