// ABOUTME: Display summary combining progress, streaks, and window position.
// ABOUTME: Used by the CLI and MCP resources to render a practice at a glance.
package progress

import (
	"time"

	"github.com/harperreed/practice/internal/dates"
)

// Summary is a derived, read-only view of a practice window.
type Summary struct {
	Completed     int     `json:"completed"`
	Remaining     int     `json:"remaining"`
	Percent       float64 `json:"percent"`
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	DayNumber     int     `json:"day_number"` // 1-based day of the window today falls on; 0 before start
	NextOpen      string  `json:"next_open,omitempty"`
	Finished      bool    `json:"finished"`
}

// Summarize derives a Summary for w as of today.
func Summarize(w Window, today time.Time) Summary {
	completed := len(w.Completed)
	current, longest := Streaks(w.Completed)

	s := Summary{
		Completed:     completed,
		Remaining:     max(w.Duration-completed, 0),
		Percent:       Percent(completed, w.Duration),
		CurrentStreak: current,
		LongestStreak: longest,
		Finished:      completed >= w.Duration,
	}

	if elapsed := dates.DaysBetween(w.Start, today); elapsed >= 0 {
		s.DayNumber = min(elapsed+1, w.Duration)
	}
	if next, ok := NextOpenDay(w, today); ok {
		s.NextOpen = dates.FormatDate(next)
	}
	return s
}
