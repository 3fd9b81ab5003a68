package tag

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultSearchLimit caps autocomplete suggestions.
const DefaultSearchLimit = 25

// newCollator returns a collator ignoring case, accents and width.
// Collators are not safe for concurrent use, so callers make their own.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.Loose)
}

// SortNames sorts names alphabetically, ignoring case and accents.
// Names that compare equal keep their relative order.
func SortNames(names []string) {
	sortAlphabetical(newCollator(), names)
}

func sortAlphabetical(c *collate.Collator, names []string) {
	slices.SortStableFunc(names, func(a, b string) int {
		return c.CompareString(a, b)
	})
}

// Search returns the names containing query (case-insensitive), prefix
// matches first. The ordering is done in two passes: a full alphabetical
// sort, then a stable partition moving prefix matches ahead of the rest.
// An empty query matches every name. A limit <= 0 means DefaultSearchLimit.
func Search(names []string, query string, limit int) []string {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := Fold(query)

	matches := make([]string, 0, len(names))
	for _, name := range names {
		if strings.Contains(Fold(name), q) {
			matches = append(matches, name)
		}
	}

	sortAlphabetical(newCollator(), matches)

	slices.SortStableFunc(matches, func(a, b string) int {
		aPrefix := strings.HasPrefix(Fold(a), q)
		bPrefix := strings.HasPrefix(Fold(b), q)
		switch {
		case aPrefix == bPrefix:
			return 0
		case aPrefix:
			return -1
		default:
			return 1
		}
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
