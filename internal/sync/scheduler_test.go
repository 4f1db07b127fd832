package sync

import (
	"testing"
	"time"
)

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("failed to load location %s: %v", name, err)
	}
	return loc
}

func TestInWindow(t *testing.T) {
	loc := mustLocation(t, "Asia/Makassar")
	s := NewScheduler(nil, testLogger(), time.Minute, "06:00", "07:00", loc)

	tests := []struct {
		name string
		hour int
		min  int
		want bool
	}{
		{"before window", 5, 59, false},
		{"window start inclusive", 6, 0, true},
		{"inside window", 6, 30, true},
		{"window end exclusive", 7, 0, false},
		{"after window", 12, 0, false},
		{"midnight", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Date(2026, 8, 27, tt.hour, tt.min, 0, 0, loc)
			if got := s.inWindow(now); got != tt.want {
				t.Errorf("inWindow(%02d:%02d) = %v, want %v", tt.hour, tt.min, got, tt.want)
			}
		})
	}
}

func TestInWindowUsesConfiguredTimezone(t *testing.T) {
	makassar := mustLocation(t, "Asia/Makassar")
	s := NewScheduler(nil, testLogger(), time.Minute, "06:00", "07:00", makassar)

	// 22:30 UTC is 06:30 in Makassar (UTC+8): inside the window even though
	// the server clock reads evening.
	utcEvening := time.Date(2026, 8, 26, 22, 30, 0, 0, time.UTC)
	if !s.inWindow(utcEvening.In(makassar)) {
		t.Error("22:30 UTC should be inside the 06:00-07:00 Makassar window")
	}
}
