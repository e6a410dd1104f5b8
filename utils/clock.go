package utils

import "time"

// Clock is the time source for everything with expiry semantics.
type Clock interface {
	Now() time.Time
	HoursFromNow(hours int) time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (c SystemClock) HoursFromNow(hours int) time.Time {
	return c.Now().Add(time.Duration(hours) * time.Hour)
}

// FixedClock always reports the same instant. Tests move it by assigning T.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.T
}

func (c *FixedClock) HoursFromNow(hours int) time.Time {
	return c.T.Add(time.Duration(hours) * time.Hour)
}

// Millis converts t to epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
