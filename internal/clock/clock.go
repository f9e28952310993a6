package clock

import "time"

// Clock supplies the current time to operations that stamp timestamps.
// Production code uses System; tests pin time with a FixedClock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// System returns the wall clock.
func System() Clock {
	return systemClock{}
}

// FixedClock reports a settable instant.
type FixedClock struct {
	Time time.Time
}

// NewFixed pins the clock to t.
func NewFixed(t time.Time) *FixedClock {
	return &FixedClock{Time: t}
}

// Now returns the pinned instant.
func (f *FixedClock) Now() time.Time {
	return f.Time
}

// Set moves the pinned instant.
func (f *FixedClock) Set(t time.Time) {
	f.Time = t
}
