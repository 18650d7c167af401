package domain

import "testing"

func titles(entities []Entity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.EntityTitle()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestManualSortKeepsOrder(t *testing.T) {
	in := []Entity{
		&Bookmark{ID: "1", Title: "zeta"},
		NewFolder("2", "alpha", nil, nil),
		&Bookmark{ID: "3", Title: "beta"},
	}
	got := titles(ManualSort{}.Sort(in))
	want := []string{"zeta", "alpha", "beta"}
	if !equalStrings(got, want) {
		t.Errorf("ManualSort = %v, want %v", got, want)
	}
}

func TestNameSort(t *testing.T) {
	in := []Entity{
		&Bookmark{ID: "1", Title: "item10"},
		&Bookmark{ID: "2", Title: "Item2"},
		NewFolder("3", "zoo", nil, nil),
		&Bookmark{ID: "4", Title: "apple"},
		NewFolder("5", "Archive", nil, nil),
	}

	tests := []struct {
		name string
		mode SortMode
		want []string
	}{
		{"ascending", NewNameSort("en", false), []string{"Archive", "zoo", "apple", "Item2", "item10"}},
		{"descending", NewNameSort("en", true), []string{"zoo", "Archive", "item10", "Item2", "apple"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(tt.mode.Sort(in))
			if !equalStrings(got, tt.want) {
				t.Errorf("Sort() = %v, want %v", got, tt.want)
			}
		})
	}

	if in[0].EntityTitle() != "item10" {
		t.Error("Sort() modified its input")
	}
}

func TestParseSortMode(t *testing.T) {
	tests := map[string]string{
		"":          "manual",
		"manual":    "manual",
		"name":      "name-asc",
		"name-asc":  "name-asc",
		"name-desc": "name-desc",
		"bogus":     "manual",
	}
	for in, want := range tests {
		if got := ParseSortMode(in, "fr").Name(); got != want {
			t.Errorf("ParseSortMode(%q) = %s, want %s", in, got, want)
		}
	}
}
