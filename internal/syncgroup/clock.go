package syncgroup

import "time"

// Clock abstracts time so playback-position math is testable against a
// simulated clock.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// MockClock returns a fixed, manually advanced time.
type MockClock struct {
	Current time.Time
}

func (m *MockClock) Now() time.Time { return m.Current }

// Advance moves the mock clock forward.
func (m *MockClock) Advance(d time.Duration) { m.Current = m.Current.Add(d) }
