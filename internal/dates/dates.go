// ABOUTME: Calendar-day helpers shared by every practice component.
// ABOUTME: Formats day keys, builds day ranges, and groups keys by month.
package dates

import (
	"fmt"
	"time"
)

// Layout is the canonical day key format used for storage and comparison.
const Layout = "2006-01-02"

// Day normalises t to its calendar day. The result is midnight UTC of t's
// local year/month/day so day arithmetic is immune to DST shifts.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day in loc (time.Local when nil).
func Today(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return Day(time.Now().In(loc))
}

// FormatDate returns the YYYY-MM-DD key for t.
func FormatDate(t time.Time) string {
	return t.Format(Layout)
}

// ParseDate parses a YYYY-MM-DD key into a calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// MustParse is ParseDate for keys already known to be well formed.
func MustParse(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// AddDays shifts a calendar day by n days.
func AddDays(d time.Time, n int) time.Time {
	return Day(d).AddDate(0, 0, n)
}

// DaysBetween returns the number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// IsFutureDate reports whether d falls strictly after today.
func IsFutureDate(d, today time.Time) bool {
	return Day(d).After(Day(today))
}

// LastNDays returns the last n calendar days ending today, oldest first.
func LastNDays(n int, today time.Time) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		days[i] = AddDays(today, i-(n-1))
	}
	return days
}

// Window returns n consecutive days starting at start.
func Window(start time.Time, n int) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	days := make([]time.Time, n)
	for i := range days {
		days[i] = AddDays(start, i)
	}
	return days
}

// Keys formats each day as a day key.
func Keys(days []time.Time) []string {
	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = FormatDate(d)
	}
	return keys
}

// MonthGroup is a run of day keys sharing a calendar month.
type MonthGroup struct {
	Month string   // YYYY-MM
	Label string   // e.g. "January 2024"
	Days  []string // day keys in input order
}

// GroupByMonth partitions day keys by calendar month. Groups appear in the
// order their month is first seen; keys that don't parse are skipped.
func GroupByMonth(keys []string) []MonthGroup {
	var groups []MonthGroup
	index := make(map[string]int)
	for _, k := range keys {
		d, err := ParseDate(k)
		if err != nil {
			continue
		}
		month := d.Format("2006-01")
		i, ok := index[month]
		if !ok {
			i = len(groups)
			index[month] = i
			groups = append(groups, MonthGroup{
				Month: month,
				Label: d.Format("January 2006"),
			})
		}
		groups[i].Days = append(groups[i].Days, k)
	}
	return groups
}
