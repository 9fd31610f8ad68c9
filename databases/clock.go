package databases

import "time"

// Clock supplies the current time. It is injected everywhere expiry math
// happens so tests can pin the clock.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock Clock used outside tests
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time { return time.Now() }
