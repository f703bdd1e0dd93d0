package internal

import (
	"fmt"
	"time"
)

// FormatRelativeTime renders how long ago t was relative to now. It is
// defined for every elapsed duration (negative skew collapses to "Just now")
// and label ordering follows chronological ordering.
func FormatRelativeTime(t, now time.Time) string {
	elapsed := now.Sub(t)
	if elapsed < 0 {
		elapsed = 0
	}

	switch {
	case elapsed < time.Minute:
		return "Just now"
	case elapsed < time.Hour:
		return pluralize(int(elapsed.Minutes()), "minute")
	case elapsed < 24*time.Hour:
		return pluralize(int(elapsed.Hours()), "hour")
	case elapsed < 48*time.Hour:
		return "Yesterday"
	case elapsed < 7*24*time.Hour:
		return pluralize(int(elapsed.Hours()/24), "day")
	default:
		return t.Format("Jan 2, 2006")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
