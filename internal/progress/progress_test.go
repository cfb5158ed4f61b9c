// ABOUTME: Tests for progress, streak, gating, and summary derivation.
// ABOUTME: Includes the sequential-completion and gap scenarios.
package progress

import (
	"math"
	"testing"
	"time"

	"github.com/harperreed/practice/internal/dates"
	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time { return dates.MustParse(s) }

func TestPercent(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		duration  int
		want      float64
	}{
		{"none", 0, 30, 0},
		{"one of thirty", 1, 30, 100.0 / 30},
		{"two of thirty", 2, 30, 200.0 / 30},
		{"half", 45, 90, 50},
		{"all", 60, 60, 100},
		{"capped", 31, 30, 100},
		{"zero duration", 3, 0, 0},
		{"negative duration", 3, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percent(tt.completed, tt.duration)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Percent(%d, %d) = %v, want %v", tt.completed, tt.duration, got, tt.want)
			}
		})
	}
}

func TestStreaks(t *testing.T) {
	tests := []struct {
		name        string
		keys        []string
		wantCurrent int
		wantLongest int
	}{
		{"empty", nil, 0, 0},
		{"single", []string{"2024-01-01"}, 1, 1},
		{"consecutive", []string{"2024-01-01", "2024-01-02", "2024-01-03"}, 3, 3},
		{"unsorted input", []string{"2024-01-03", "2024-01-01", "2024-01-02"}, 3, 3},
		{"gap resets current", []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-05"}, 1, 3},
		{"longest later", []string{"2024-01-01", "2024-01-03", "2024-01-04"}, 2, 2},
		{"duplicates ignored", []string{"2024-01-01", "2024-01-01", "2024-01-02"}, 2, 2},
		{"month boundary", []string{"2024-01-31", "2024-02-01"}, 2, 2},
		{"garbage ignored", []string{"nope", "2024-01-01"}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, longest := Streaks(tt.keys)
			assert.Equal(t, tt.wantCurrent, current, "current")
			assert.Equal(t, tt.wantLongest, longest, "longest")
		})
	}
}

func TestCanRecordNewPractice(t *testing.T) {
	w := Window{Start: day("2024-01-01"), Duration: 30}
	today := day("2024-01-15")

	assert.True(t, CanRecord(w, day("2024-01-01"), today))
	assert.False(t, CanRecord(w, day("2024-01-02"), today))
	assert.False(t, CanRecord(w, day("2023-12-31"), today), "before window")
}

func TestCanRecordSequential(t *testing.T) {
	w := Window{Start: day("2024-01-01"), Duration: 30, Completed: []string{"2024-01-01"}}
	today := day("2024-01-15")

	open := 0
	for _, d := range dates.Window(w.Start, w.Duration) {
		if CanRecord(w, d, today) {
			open++
		}
	}
	assert.Equal(t, 2, open, "completed day plus the next one")
	assert.True(t, CanRecord(w, day("2024-01-01"), today))
	assert.True(t, CanRecord(w, day("2024-01-02"), today))
	assert.False(t, CanRecord(w, day("2024-01-03"), today))
}

func TestCanRecordGapUsesHighestCompleted(t *testing.T) {
	w := Window{Start: day("2024-01-01"), Duration: 30, Completed: []string{"2024-01-01", "2024-01-03"}}
	today := day("2024-01-15")

	assert.True(t, CanRecord(w, day("2024-01-04"), today))
	assert.False(t, CanRecord(w, day("2024-01-02"), today), "gap day is not the frontier")
	assert.True(t, CanRecord(w, day("2024-01-03"), today))
}

func TestCanRecordFutureAndWindowEnd(t *testing.T) {
	w := Window{Start: day("2024-01-01"), Duration: 30}
	assert.False(t, CanRecord(w, day("2024-01-01"), day("2023-12-31")), "start is in the future")

	full := Window{Start: day("2024-01-01"), Duration: 2, Completed: []string{"2024-01-01", "2024-01-02"}}
	assert.False(t, CanRecord(full, day("2024-01-03"), day("2024-02-01")), "past window end")
	assert.True(t, CanRecord(full, day("2024-01-02"), day("2024-02-01")))
}

func TestNextOpenDay(t *testing.T) {
	w := Window{Start: day("2024-01-01"), Duration: 30}

	next, ok := NextOpenDay(w, day("2024-01-10"))
	assert.True(t, ok)
	assert.Equal(t, "2024-01-01", dates.FormatDate(next))

	w.Completed = []string{"2024-01-01"}
	_, ok = NextOpenDay(w, day("2024-01-01"))
	assert.False(t, ok, "next day is still in the future")

	done := Window{Start: day("2024-01-01"), Duration: 1, Completed: []string{"2024-01-01"}}
	_, ok = NextOpenDay(done, day("2024-03-01"))
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	w := Window{
		Start:     day("2024-01-01"),
		Duration:  30,
		Completed: []string{"2024-01-01", "2024-01-02", "2024-01-03"},
	}
	s := Summarize(w, day("2024-01-04"))

	assert.Equal(t, 3, s.Completed)
	assert.Equal(t, 27, s.Remaining)
	assert.InDelta(t, 10.0, s.Percent, 1e-9)
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 3, s.LongestStreak)
	assert.Equal(t, 4, s.DayNumber)
	assert.Equal(t, "2024-01-04", s.NextOpen)
	assert.False(t, s.Finished)

	before := Summarize(Window{Start: day("2024-02-01"), Duration: 30}, day("2024-01-20"))
	assert.Equal(t, 0, before.DayNumber)
	assert.Empty(t, before.NextOpen)

	after := Summarize(Window{Start: day("2024-01-01"), Duration: 30}, day("2024-06-01"))
	assert.Equal(t, 30, after.DayNumber)
}
