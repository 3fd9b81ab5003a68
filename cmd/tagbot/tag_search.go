package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/tagbot/internal/tag"
)

var tagSearchLimit int

func init() {
	tagSearchCmd.Flags().IntVar(&tagSearchLimit, "limit", tag.DefaultSearchLimit, "Maximum number of names to return")
	tagCmd.AddCommand(tagSearchCmd)
}

var tagSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search tag names the way autocomplete does",
	Long: `Search tag names by case-insensitive substring. Names that start with
the query come first, then the rest, each group in alphabetical order.

Example:
  tagbot tag search ap --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runTagSearch,
}

func runTagSearch(cmd *cobra.Command, args []string) error {
	store := mustOpenStore()

	names, err := store.List()
	if err != nil {
		exitWithStoreError("", err)
	}
	matches := tag.Search(names, args[0], tagSearchLimit)
	if matches == nil {
		matches = []string{}
	}

	if humanOutput {
		if len(matches) == 0 {
			outputHuman("No matching tags\n")
			return nil
		}
		outputHuman("%s\n", strings.Join(matches, "\n"))
	} else {
		outputJSON(matches)
	}
	return nil
}
