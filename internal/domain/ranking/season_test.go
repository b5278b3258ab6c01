package ranking

import (
	"testing"
	"time"
)

func TestSeasonStart(t *testing.T) {
	cases := map[int]string{
		2024: "2024-09-05",
		2025: "2025-09-04",
	}
	for season, want := range cases {
		if got := SeasonStart(season).Format("2006-01-02"); got != want {
			t.Fatalf("season %d: expected %s, got %s", season, want, got)
		}
	}
}

func TestCurrentPeriod(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{name: "summer is preseason", now: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), want: "preseason:2025"},
		{name: "kickoff thursday", now: time.Date(2025, 9, 4, 20, 0, 0, 0, time.UTC), want: "weekly:2025:1"},
		{name: "monday night of week 1", now: time.Date(2025, 9, 8, 23, 0, 0, 0, time.UTC), want: "weekly:2025:1"},
		{name: "tuesday after week 1", now: time.Date(2025, 9, 9, 1, 0, 0, 0, time.UTC), want: "weekly:2025:2"},
		{name: "mid october", now: time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC), want: "weekly:2025:7"},
		{name: "late december is capped", now: time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC), want: "weekly:2025:18"},
		{name: "january belongs to previous season", now: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC), want: "weekly:2025:18"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CurrentPeriod(tc.now).Key(); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
