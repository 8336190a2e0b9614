package clock

import "time"

// Clock abstracts wall-clock time so coupon windows and purchase
// timestamps can be pinned in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewRealClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// MockClock reports a fixed instant until advanced.
type MockClock struct {
	now time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

func (c *MockClock) Now() time.Time {
	return c.now
}

func (c *MockClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
