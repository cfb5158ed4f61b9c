// ABOUTME: Progress percentage for fixed-length practice commitments.
// ABOUTME: Derived from the completed-day count; never stored authoritatively.
package progress

// Percent returns completed/duration as a percentage capped at 100.
func Percent(completed, duration int) float64 {
	if duration <= 0 || completed <= 0 {
		return 0
	}
	p := float64(completed) / float64(duration) * 100
	if p > 100 {
		return 100
	}
	return p
}
