package thanks

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
)

// SortOption selects the display order of a list of entries.
type SortOption int

const (
	SortTitleAsc SortOption = iota
	SortTitleDesc
	SortDateAsc
	SortDateDesc
)

// SortOptions lists every option in menu order.
var SortOptions = []SortOption{SortTitleAsc, SortTitleDesc, SortDateAsc, SortDateDesc}

func (s SortOption) String() string {
	switch s {
	case SortTitleAsc:
		return "title-asc"
	case SortTitleDesc:
		return "title-desc"
	case SortDateAsc:
		return "date-asc"
	case SortDateDesc:
		return "date-desc"
	default:
		return fmt.Sprintf("SortOption(%d)", int(s))
	}
}

// Label is the human readable menu text.
func (s SortOption) Label() string {
	switch s {
	case SortTitleAsc:
		return "Name A → Z"
	case SortTitleDesc:
		return "Name Z → A"
	case SortDateAsc:
		return "Date Oldest → Newest"
	case SortDateDesc:
		return "Date Newest → Oldest"
	default:
		return s.String()
	}
}

// ParseSortOption accepts the String form of a SortOption ("title-asc", "date-desc", ...).
func ParseSortOption(s string) (SortOption, error) {
	for _, opt := range SortOptions {
		if strings.EqualFold(strings.TrimSpace(s), opt.String()) {
			return opt, nil
		}
	}
	return SortTitleAsc, fmt.Errorf("unknown sort option %q (want one of title-asc, title-desc, date-asc, date-desc)", s)
}

// ViewOptions is the transient list state: what to show and in which order.
type ViewOptions struct {
	FavoritesOnly bool       `json:"favorites_only"`
	SearchText    string     `json:"search_text"`
	Sort          SortOption `json:"sort"`
}

// Project derives the display list from a snapshot of entries.
// It filters by favorite, then by search text, then stable-sorts, so ties keep
// their input order. The input slice is never modified.
func Project(entries []Entry, opts ViewOptions) []Entry {
	result := slices.Clone(entries)
	if opts.FavoritesOnly {
		result = lo.Filter(result, func(e Entry, _ int) bool {
			return e.IsFavorite
		})
	}

	if query := strings.TrimSpace(opts.SearchText); query != "" {
		folder := cases.Fold()
		needle := folder.String(query)
		result = lo.Filter(result, func(e Entry, _ int) bool {
			return strings.Contains(folder.String(e.Title), needle) ||
				strings.Contains(folder.String(e.Reason), needle)
		})
	}

	slices.SortStableFunc(result, compareFor(opts.Sort))
	return result
}

func compareFor(sort SortOption) func(a, b Entry) int {
	switch sort {
	case SortTitleDesc:
		return func(a, b Entry) int { return cmp.Compare(b.Title, a.Title) }
	case SortDateAsc:
		return func(a, b Entry) int { return a.Date.Compare(b.Date) }
	case SortDateDesc:
		return func(a, b Entry) int { return b.Date.Compare(a.Date) }
	default:
		return func(a, b Entry) int { return cmp.Compare(a.Title, b.Title) }
	}
}
