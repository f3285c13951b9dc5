package reminders

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

const clockLayout = "3:04 PM"

// FormatClock renders a time of day as "7:30 PM".
func FormatClock(hour, minute int) string {
	return time.Date(2000, 1, 1, hour, minute, 0, 0, time.UTC).Format(clockLayout)
}

// Summary describes a not yet submitted selection, e.g.
// "Reminders will repeat at 7:30 PM on: Monday, Wednesday."
func Summary(timeOfDay time.Time, days []string) string {
	clock := FormatClock(timeOfDay.Hour(), timeOfDay.Minute())

	names := lo.Uniq(lo.Map(days, func(day string, _ int) string {
		if _, canonical, ok := WeekdayIndex(day); ok {
			return canonical
		}
		return day
	}))
	if len(names) == 0 {
		return fmt.Sprintf("No days selected yet. Reminders will repeat at %s on any days you choose.", clock)
	}
	return fmt.Sprintf("Reminders will repeat at %s on: %s.", clock, strings.Join(SortWeekdays(names), ", "))
}

var timeOfDayLayouts = []string{"15:04", "3:04 PM", "3:04PM", "3:04 pm", "3:04pm"}

// ParseTimeOfDay parses "19:30", "7:30 PM" or "7:30PM" into a time in loc.
// Only the clock fields are meaningful. The date is pinned to 2000-01-01 so a
// daylight saving gap on the day of parsing cannot shift the wall clock.
func ParseTimeOfDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	for _, layout := range timeOfDayLayouts {
		parsed, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return time.Date(2000, time.January, 1, parsed.Hour(), parsed.Minute(), 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid time of day %q (want HH:MM or H:MM AM/PM)", s)
}
