package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/tagbot/internal/tag"
)

var tagListFileOrder bool

func init() {
	tagListCmd.Flags().BoolVar(&tagListFileOrder, "file-order", false, "Keep the order tags appear in the file instead of sorting")
	tagCmd.AddCommand(tagListCmd)
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tag names",
	Long: `List all tag names, sorted alphabetically ignoring case and accents.

Use --file-order to list them in the order they are stored.`,
	Args: cobra.NoArgs,
	RunE: runTagList,
}

func runTagList(cmd *cobra.Command, args []string) error {
	store := mustOpenStore()

	names, err := store.List()
	if err != nil {
		exitWithStoreError("", err)
	}
	if !tagListFileOrder {
		tag.SortNames(names)
	}

	if humanOutput {
		if len(names) == 0 {
			outputHuman("No tags\n")
			return nil
		}
		outputHuman("%s\n", strings.Join(names, "\n"))
	} else {
		outputJSON(names)
	}
	return nil
}
