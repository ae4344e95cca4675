package util

import (
	"testing"
	"time"
)

func TestDayDiff(t *testing.T) {
	base := time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)
	tests := []struct {
		name string
		to   time.Time
		want int
	}{
		{"same day", time.Date(2024, 3, 10, 0, 1, 0, 0, time.UTC), 0},
		{"next day after midnight", time.Date(2024, 3, 11, 0, 0, 1, 0, time.UTC), 1},
		{"two days", time.Date(2024, 3, 12, 12, 0, 0, 0, time.UTC), 2},
		{"earlier", time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayDiff(base, tt.to); got != tt.want {
				t.Fatalf("DayDiff() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTodayUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2024, 3, 11, 6, 0, 0, 0, loc)
	if got := Today(now); got != "2024-03-10" {
		t.Fatalf("Today() = %s, want 2024-03-10", got)
	}
}
