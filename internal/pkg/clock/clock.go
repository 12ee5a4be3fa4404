// Package clock provides injectable time so day-key derivation and
// timestamps are testable.
package clock

import "time"

// DayKeyLayout formats a time into the UTC day key that scopes daily
// characters.
const DayKeyLayout = "2006-01-02"

// Clock provides time functionality.
type Clock interface {
	Now() time.Time
}

// Real implements Clock using actual system time.
type Real struct{}

// Now returns the current time.
func (c *Real) Now() time.Time {
	return time.Now()
}

// New returns a new real clock.
func New() Clock {
	return &Real{}
}

// DayKey returns the UTC calendar date of t in day-key form.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayKeyLayout)
}

// Fixed implements Clock pinned to a single instant, for tests.
type Fixed struct {
	T time.Time
}

// Now returns the pinned instant.
func (c *Fixed) Now() time.Time {
	return c.T
}
