package reminders

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

// Trigger is one weekly recurring reminder time.
type Trigger struct {
	Day        string `json:"day"`
	Weekday    int    `json:"weekday"`
	Hour       int    `json:"hour"`
	Minute     int    `json:"minute"`
	Identifier string `json:"identifier"`
}

// Identifier derives the registration key of a day and time, e.g. "Monday-19-30".
// Registering the same key again replaces the earlier registration.
func Identifier(day string, hour, minute int) string {
	return fmt.Sprintf("%s-%d-%d", day, hour, minute)
}

// ComputeTriggers builds one trigger per distinct recognized day, in canonical
// weekday order. Hour and minute are read from timeOfDay in its own location,
// so callers pass a local time. Names that are not weekdays are skipped and
// returned as unknown.
func ComputeTriggers(timeOfDay time.Time, days []string) (triggers []Trigger, unknown []string) {
	hour, minute := timeOfDay.Hour(), timeOfDay.Minute()

	seen := make(map[int]bool, len(days))
	for _, day := range SortWeekdays(days) {
		index, canonical, ok := WeekdayIndex(day)
		if !ok {
			unknown = append(unknown, day)
			continue
		}
		if seen[index] {
			continue
		}
		seen[index] = true
		triggers = append(triggers, Trigger{
			Day:        canonical,
			Weekday:    index,
			Hour:       hour,
			Minute:     minute,
			Identifier: Identifier(canonical, hour, minute),
		})
	}
	return triggers, lo.Uniq(unknown)
}

// Identifiers returns the registration keys of triggers.
func Identifiers(triggers []Trigger) []string {
	return lo.Map(triggers, func(t Trigger, _ int) string { return t.Identifier })
}
