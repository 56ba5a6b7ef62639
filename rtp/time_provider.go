package rtp

import "time"

// TimeProvider abstracts the clock used by the reassembler.
// Inject a mock implementation for deterministic timeout tests.
type TimeProvider interface {
	Now() time.Time
}

// DefaultTimeProvider uses the system clock.
type DefaultTimeProvider struct{}

// Now returns the current system time.
func (DefaultTimeProvider) Now() time.Time {
	return time.Now()
}
