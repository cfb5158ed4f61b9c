// ABOUTME: Day-gating policy deciding which days of a practice may be recorded.
// ABOUTME: Completion proceeds strictly in order; completed days stay editable.
package progress

import (
	"time"

	"github.com/harperreed/practice/internal/dates"
)

// Window describes a practice's commitment window and its completed days.
type Window struct {
	Start     time.Time
	Duration  int
	Completed []string
}

// Index returns day's position in the window, or false if it lies outside.
func (w Window) Index(day time.Time) (int, bool) {
	i := dates.DaysBetween(w.Start, day)
	if i < 0 || i >= w.Duration {
		return 0, false
	}
	return i, true
}

// lastIndex returns the highest in-window index among completed days, or -1.
func (w Window) lastIndex() int {
	last := -1
	for _, k := range w.Completed {
		d, err := dates.ParseDate(k)
		if err != nil {
			continue
		}
		if i, ok := w.Index(d); ok && i > last {
			last = i
		}
	}
	return last
}

func (w Window) isCompleted(day time.Time) bool {
	key := dates.FormatDate(day)
	for _, k := range w.Completed {
		if k == key {
			return true
		}
	}
	return false
}

// CanRecord reports whether day may be recorded or edited as of today.
//
// Days outside the window or after today are locked. A completed day is
// always open so it can be edited or un-marked. Otherwise only the day after
// the highest completed day is open (day 0 when nothing is completed); gaps
// left by un-marking an earlier day don't move that frontier.
func CanRecord(w Window, day, today time.Time) bool {
	i, ok := w.Index(day)
	if !ok || dates.IsFutureDate(day, today) {
		return false
	}
	if w.isCompleted(day) {
		return true
	}
	return i == w.lastIndex()+1
}

// NextOpenDay returns the single not-yet-completed day that may be recorded
// as of today, if any.
func NextOpenDay(w Window, today time.Time) (time.Time, bool) {
	next := w.lastIndex() + 1
	if next >= w.Duration {
		return time.Time{}, false
	}
	day := dates.AddDays(w.Start, next)
	if dates.IsFutureDate(day, today) {
		return time.Time{}, false
	}
	return day, true
}
