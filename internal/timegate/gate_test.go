package timegate

import (
	"testing"
	"time"
)

func brusselsGate(t *testing.T, hour int) *Gate {
	t.Helper()
	gate, err := New(hour, "Europe/Brussels")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return gate
}

func TestOpen(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Brussels")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}

	tests := []struct {
		name  string
		local time.Time
		open  bool
	}{
		{"well before threshold", time.Date(2026, 3, 14, 2, 0, 0, 0, loc), false},
		{"minute before threshold", time.Date(2026, 3, 14, 6, 59, 0, 0, loc), false},
		{"exactly at threshold", time.Date(2026, 3, 14, 7, 0, 0, 0, loc), true},
		{"after threshold", time.Date(2026, 3, 14, 9, 30, 0, 0, loc), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := brusselsGate(t, 7)
			gate.Now = func() time.Time { return tt.local }
			if got := gate.Open(); got != tt.open {
				t.Fatalf("Open() = %v, want %v at %s", got, tt.open, tt.local)
			}
		})
	}
}

func TestOpenConvertsFromOtherZones(t *testing.T) {
	gate := brusselsGate(t, 7)
	// 05:30 UTC is 06:30 or 07:30 in Brussels depending on DST; pin a
	// winter date so the offset is +1.
	gate.Now = func() time.Time { return time.Date(2026, 1, 10, 5, 30, 0, 0, time.UTC) }
	if gate.Open() {
		t.Fatal("06:30 local must be before the 07:00 threshold")
	}

	gate.Now = func() time.Time { return time.Date(2026, 1, 10, 6, 30, 0, 0, time.UTC) }
	if !gate.Open() {
		t.Fatal("07:30 local must be after the 07:00 threshold")
	}
}

func TestNewRejectsUnknownTimezone(t *testing.T) {
	if _, err := New(7, "Mars/Olympus"); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}
