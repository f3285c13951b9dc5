package thanks

import (
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
)

func entryAt(title, reason string, favorite bool, date time.Time) Entry {
	return Entry{
		ID:         uuid.New(),
		Title:      title,
		Reason:     reason,
		Date:       date,
		IsFavorite: favorite,
		Icon:       DefaultIcon,
		ColorHex:   DefaultColorHex,
	}
}

func sampleEntries() []Entry {
	base := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	return []Entry{
		entryAt("Family dinner", "Everyone came home", true, base.Add(3*time.Hour)),
		entryAt("Sunny walk", "The park was quiet", false, base),
		entryAt("Good book", "Finished it in one sitting", true, base.Add(time.Hour)),
		entryAt("Coffee", "Barista remembered my order", false, base.Add(2*time.Hour)),
	}
}

func TestProjectTitleSortIsOrdinal(t *testing.T) {
	now := time.Now()
	entries := []Entry{
		entryAt("apple", "", false, now),
		entryAt("Zebra", "", false, now),
	}

	got := Project(entries, ViewOptions{Sort: SortTitleAsc})

	if want := []string{"Zebra", "apple"}; !slices.Equal(titles(got), want) {
		t.Errorf("Expected %v, got %v", want, titles(got))
	}
}

func TestProjectIsIdempotent(t *testing.T) {
	entries := sampleEntries()
	opts := ViewOptions{FavoritesOnly: true, SearchText: "o", Sort: SortDateDesc}

	first := Project(entries, opts)
	second := Project(entries, opts)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical projections, got %v and %v", titles(first), titles(second))
	}
	if again := Project(first, opts); !reflect.DeepEqual(first, again) {
		t.Errorf("Expected projecting a projection to change nothing, got %v", titles(again))
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	entries := sampleEntries()
	before := titles(entries)

	Project(entries, ViewOptions{Sort: SortTitleDesc})

	if !slices.Equal(before, titles(entries)) {
		t.Errorf("Expected input order %v to be kept, got %v", before, titles(entries))
	}
}

func TestProjectFilters(t *testing.T) {
	entries := sampleEntries()

	tests := []struct {
		name string
		opts ViewOptions
		want []string
	}{
		{
			name: "no filters",
			opts: ViewOptions{Sort: SortTitleAsc},
			want: []string{"Coffee", "Family dinner", "Good book", "Sunny walk"},
		},
		{
			name: "favorites only",
			opts: ViewOptions{FavoritesOnly: true, Sort: SortTitleAsc},
			want: []string{"Family dinner", "Good book"},
		},
		{
			name: "search matches title case-insensitively",
			opts: ViewOptions{SearchText: "COFFEE", Sort: SortTitleAsc},
			want: []string{"Coffee"},
		},
		{
			name: "search matches reason",
			opts: ViewOptions{SearchText: "park", Sort: SortTitleAsc},
			want: []string{"Sunny walk"},
		},
		{
			name: "search is trimmed",
			opts: ViewOptions{SearchText: "  book  ", Sort: SortTitleAsc},
			want: []string{"Good book"},
		},
		{
			name: "whitespace search keeps everything",
			opts: ViewOptions{SearchText: "   ", Sort: SortDateAsc},
			want: []string{"Sunny walk", "Good book", "Coffee", "Family dinner"},
		},
		{
			name: "favorites and search combine",
			opts: ViewOptions{FavoritesOnly: true, SearchText: "home", Sort: SortTitleAsc},
			want: []string{"Family dinner"},
		},
		{
			name: "no match",
			opts: ViewOptions{SearchText: "volcano"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(entries, tt.opts)
			if !slices.Equal(tt.want, titles(got)) {
				t.Errorf("Expected %v, got %v", tt.want, titles(got))
			}
			for _, e := range got {
				if tt.opts.FavoritesOnly && !e.IsFavorite {
					t.Errorf("Expected only favorites, got %q", e.Title)
				}
			}
		})
	}
}

func TestProjectSortIsStable(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		entryAt("same", "first", false, date),
		entryAt("same", "second", false, date),
		entryAt("other", "third", false, date.Add(-time.Hour)),
		entryAt("same", "fourth", false, date),
	}

	for _, sort := range SortOptions {
		t.Run(sort.String(), func(t *testing.T) {
			got := Project(entries, ViewOptions{Sort: sort})
			var reasons []string
			for _, e := range got {
				if e.Title == "same" {
					reasons = append(reasons, e.Reason)
				}
			}
			if want := []string{"first", "second", "fourth"}; !slices.Equal(want, reasons) {
				t.Errorf("Expected ties in input order %v, got %v", want, reasons)
			}
		})
	}
}

func TestProjectDateSorts(t *testing.T) {
	entries := sampleEntries()

	asc := Project(entries, ViewOptions{Sort: SortDateAsc})
	desc := Project(entries, ViewOptions{Sort: SortDateDesc})

	if want := []string{"Sunny walk", "Good book", "Coffee", "Family dinner"}; !slices.Equal(want, titles(asc)) {
		t.Errorf("Expected %v, got %v", want, titles(asc))
	}
	if want := []string{"Family dinner", "Coffee", "Good book", "Sunny walk"}; !slices.Equal(want, titles(desc)) {
		t.Errorf("Expected %v, got %v", want, titles(desc))
	}
}

func TestParseSortOption(t *testing.T) {
	for _, opt := range SortOptions {
		got, err := ParseSortOption(opt.String())
		if err != nil {
			t.Fatalf("ParseSortOption(%q) failed: %v", opt, err)
		}
		if got != opt {
			t.Errorf("Expected %v, got %v", opt, got)
		}
	}

	got, err := ParseSortOption(" Date-Desc ")
	if err != nil {
		t.Fatalf("ParseSortOption failed: %v", err)
	}
	if got != SortDateDesc {
		t.Errorf("Expected %v, got %v", SortDateDesc, got)
	}

	if _, err := ParseSortOption("random"); err == nil {
		t.Errorf("Expected an error for an unknown sort option")
	}
}

func TestSortOptionLabels(t *testing.T) {
	want := map[SortOption]string{
		SortTitleAsc:  "Name A → Z",
		SortTitleDesc: "Name Z → A",
		SortDateAsc:   "Date Oldest → Newest",
		SortDateDesc:  "Date Newest → Oldest",
	}
	for opt, label := range want {
		if got := opt.Label(); got != label {
			t.Errorf("Expected %v label %q, got %q", opt, label, got)
		}
	}
}
