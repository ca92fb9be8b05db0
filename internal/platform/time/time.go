// Package time contains clock helpers
package time

import "time"

// DayLayout formats a UTC calendar day
const DayLayout = "2006-01-02"

// Clock yields the current instant; tests pin it
type Clock func() time.Time

// System is the wall clock
func System() Clock { return time.Now }

// Fixed returns a clock stuck at t
func Fixed(t time.Time) Clock { return func() time.Time { return t } }

// Day returns the current UTC day as YYYY-MM-DD
func (c Clock) Day() string {
	return c.Now().UTC().Format(DayLayout)
}

// Now returns the current instant, falling back to the wall clock for a nil Clock
func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// ValidDay reports whether s is a YYYY-MM-DD day
func ValidDay(s string) bool {
	_, err := time.Parse(DayLayout, s)
	return err == nil
}
