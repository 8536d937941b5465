// Package timegate holds the local-time precondition for a pipeline run.
// The daily episode publishes in the morning; running before the
// configured hour would transcribe yesterday's episode again, so the
// whole process skips (successfully) until the threshold passes.
package timegate

import (
	"fmt"
	"time"
)

// Gate is a time-of-day threshold in a fixed location.
type Gate struct {
	Hour     int
	Location *time.Location
	Now      func() time.Time
}

// New creates a Gate for the given hour and timezone name.
func New(hour int, timezone string) (*Gate, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Gate{Hour: hour, Location: loc, Now: time.Now}, nil
}

// Open reports whether the local time has passed the threshold hour.
func (g *Gate) Open() bool {
	return g.LocalTime().Hour() >= g.Hour
}

// LocalTime returns the current time in the gate's location.
func (g *Gate) LocalTime() time.Time {
	return g.Now().In(g.Location)
}
