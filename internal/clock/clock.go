// Package clock abstracts wall-clock access so time-dependent rules can be
// tested deterministically.
package clock

import "time"

// Clock returns the current time in UTC.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystemClock returns a Clock backed by the system wall clock.
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
