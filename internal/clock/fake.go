package clock

import "time"

// FakeClock is a manually driven Clock for tests.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

// NewFakeDate starts a FakeClock at midday UTC on the given date.
func NewFakeDate(year int, month time.Month, day int) *FakeClock {
	return NewFakeClock(time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

func (c *FakeClock) Set(t time.Time) {
	c.now = t.UTC()
}

func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
