package internal

import (
	"testing"
	"time"
)

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{"zero", 0, "Just now"},
		{"seconds", 45 * time.Second, "Just now"},
		{"one minute", time.Minute, "1 minute ago"},
		{"minutes", 30 * time.Minute, "30 minutes ago"},
		{"one hour", time.Hour, "1 hour ago"},
		{"hours", 13 * time.Hour, "13 hours ago"},
		{"yesterday", 25 * time.Hour, "Yesterday"},
		{"almost two days", 47 * time.Hour, "Yesterday"},
		{"days", 3 * 24 * time.Hour, "3 days ago"},
		{"six days", 6*24*time.Hour + 12*time.Hour, "6 days ago"},
		{"beyond a week", 10 * 24 * time.Hour, "Jun 5, 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRelativeTime(now.Add(-tt.elapsed), now); got != tt.want {
				t.Errorf("FormatRelativeTime(-%v) = %q, want %q", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestFormatRelativeTime_FutureCollapsesToJustNow(t *testing.T) {
	now := time.Now()
	if got := FormatRelativeTime(now.Add(time.Hour), now); got != "Just now" {
		t.Errorf("future timestamp = %q, want %q", got, "Just now")
	}
}

// Labels must never move backwards as time advances
func TestFormatRelativeTime_TotalOverElapsedRange(t *testing.T) {
	now := time.Now()
	for elapsed := time.Duration(0); elapsed < 10*24*time.Hour; elapsed += 17 * time.Minute {
		if got := FormatRelativeTime(now.Add(-elapsed), now); got == "" {
			t.Fatalf("empty label at elapsed %v", elapsed)
		}
	}
}
