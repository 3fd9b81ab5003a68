package tag

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSearch(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		query string
		limit int
		want  []string
	}{
		{
			name:  "prefix matches before substring matches",
			names: []string{"Apple", "Pineapple", "apricot"},
			query: "ap",
			want:  []string{"Apple", "apricot", "Pineapple"},
		},
		{
			name:  "query is case-insensitive",
			names: []string{"Apple", "Pineapple", "apricot"},
			query: "AP",
			want:  []string{"Apple", "apricot", "Pineapple"},
		},
		{
			name:  "empty query matches all alphabetically",
			names: []string{"banana", "Cherry", "apple"},
			query: "",
			want:  []string{"apple", "banana", "Cherry"},
		},
		{
			name:  "both groups sorted alphabetically",
			names: []string{"zebraap", "apz", "map", "Apa", "snap"},
			query: "ap",
			want:  []string{"Apa", "apz", "map", "snap", "zebraap"},
		},
		{
			name:  "no matches",
			names: []string{"alpha", "beta"},
			query: "zz",
			want:  []string{},
		},
		{
			name:  "accents ignored when ordering",
			names: []string{"eclipse", "éclair", "Echo"},
			query: "",
			want:  []string{"Echo", "éclair", "eclipse"},
		},
		{
			name:  "explicit limit",
			names: []string{"a1", "a2", "a3", "a4"},
			query: "a",
			limit: 2,
			want:  []string{"a1", "a2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(tt.names, tt.query, tt.limit)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Search(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestSearch_DefaultLimit(t *testing.T) {
	var names []string
	for i := 0; i < 40; i++ {
		names = append(names, fmt.Sprintf("tag%02d", i))
	}

	got := Search(names, "", 0)
	if len(got) != DefaultSearchLimit {
		t.Fatalf("Search() returned %d names, want %d", len(got), DefaultSearchLimit)
	}
	if got[0] != "tag00" || got[24] != "tag24" {
		t.Errorf("Search() = %v, want tag00..tag24", got)
	}
}

func TestSearch_DoesNotModifyInput(t *testing.T) {
	names := []string{"b", "a"}
	Search(names, "", 0)
	if names[0] != "b" || names[1] != "a" {
		t.Errorf("Search() reordered its input: %v", names)
	}
}

func TestSortNames(t *testing.T) {
	names := []string{"delta", "Bravo", "alpha", "Charlie"}
	SortNames(names)

	want := []string{"alpha", "Bravo", "Charlie", "delta"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("SortNames() mismatch (-want +got):\n%s", diff)
	}
}
