// ABOUTME: Streak derivation from a set of completed day keys.
// ABOUTME: Computes the current run and the longest run of consecutive days.
package progress

import (
	"sort"
	"time"

	"github.com/harperreed/practice/internal/dates"
)

// Streaks returns the current streak (the run of consecutive days ending at
// the most recent completed day) and the longest run in the history.
// Duplicate and unparsable keys are ignored.
func Streaks(keys []string) (current, longest int) {
	days := uniqueDays(keys)
	if len(days) == 0 {
		return 0, 0
	}

	run := 1
	longest = 1
	for i := 1; i < len(days); i++ {
		if dates.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return run, longest
}

func uniqueDays(keys []string) []time.Time {
	seen := make(map[string]bool, len(keys))
	days := make([]time.Time, 0, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		d, err := dates.ParseDate(k)
		if err != nil {
			continue
		}
		seen[k] = true
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
