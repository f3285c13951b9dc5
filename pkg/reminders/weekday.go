// Package reminders turns a time of day and a set of weekdays into recurring
// notification triggers, and manages their registration with a Notifier.
package reminders

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Weekdays is the canonical weekday ordering. A day's 1-based position is its
// trigger weekday number (Sunday=1 .. Saturday=7).
var Weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// WeekdayIndex maps a day name, in any letter case, to its 1-based index and
// canonical spelling. ok is false for anything that is not a weekday name.
func WeekdayIndex(name string) (index int, canonical string, ok bool) {
	name = strings.TrimSpace(name)
	for i, day := range Weekdays {
		if strings.EqualFold(day, name) {
			return i + 1, day, true
		}
	}
	return 0, "", false
}

// WeekdayName returns the canonical name of a 1-based weekday index.
func WeekdayName(index int) (string, bool) {
	if index < 1 || index > len(Weekdays) {
		return "", false
	}
	return Weekdays[index-1], true
}

// SortWeekdays returns days in canonical weekday order. Unrecognized names
// sort after every weekday, alphabetically among themselves. The input is
// not modified.
func SortWeekdays(days []string) []string {
	sorted := slices.Clone(days)
	slices.SortStableFunc(sorted, compareWeekdays)
	return sorted
}

func compareWeekdays(a, b string) int {
	ai, _, aok := WeekdayIndex(a)
	bi, _, bok := WeekdayIndex(b)
	switch {
	case aok && bok:
		return cmp.Compare(ai, bi)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}

// ValidateDays fails on any name that is not a weekday. Use it at input
// boundaries where a typo should be reported rather than skipped.
func ValidateDays(days []string) error {
	var unknown []string
	for _, day := range days {
		if _, _, ok := WeekdayIndex(day); !ok {
			unknown = append(unknown, day)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown weekday name(s) %s (want one of %s)",
			strings.Join(lo.Map(unknown, func(d string, _ int) string { return strconv.Quote(d) }), ", "),
			strings.Join(Weekdays, ", "))
	}
	return nil
}
