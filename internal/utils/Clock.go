package utils

import "time"

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

// MockClock is a manually driven Clock for tests. The live KPI projection depends on "now",
// so tests move it explicitly with SetNow or Advance.
type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}

func (m *MockClock) Advance(d time.Duration) time.Time {
	m.FixedNow = m.FixedNow.Add(d)
	return m.FixedNow
}
