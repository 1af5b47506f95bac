// ABOUTME: Duration formatting utilities for user-facing reading time labels
// ABOUTME: Converts durations into compact "5 min read" style strings

package duration

import (
	"fmt"
	"time"
)

// ReadingTimeLabel formats an estimated reading time for display. Durations
// under an hour render as minutes; longer ones as hours and minutes.
func ReadingTimeLabel(d time.Duration) string {
	minutes := int(d.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min read", minutes)
	}

	hours := minutes / 60
	rest := minutes % 60
	if rest == 0 {
		return fmt.Sprintf("%d hr read", hours)
	}
	return fmt.Sprintf("%d hr %d min read", hours, rest)
}
