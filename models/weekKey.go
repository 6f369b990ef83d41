package models

import (
	"errors"
	"fmt"
	"time"
)

const WeekKeyLayout = "2006-01-02"

var ErrInvalidWeekKey = errors.New("invalid week key")

// WeekKey is the civil date (YYYY-MM-DD) of the Sunday that starts a week
// in the organization's time zone.
type WeekKey string

// ParseWeekKey validates that s is a real calendar date in YYYY-MM-DD form.
func ParseWeekKey(s string) (WeekKey, error) {
	d, err := time.Parse(WeekKeyLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidWeekKey, s)
	}
	// time.Parse rejects out of range days, but not leading/trailing noise
	if d.Format(WeekKeyLayout) != s {
		return "", fmt.Errorf("%w: %q", ErrInvalidWeekKey, s)
	}
	return WeekKey(s), nil
}

// Date returns the key's calendar date as midnight UTC. Only the
// year/month/day are meaningful.
func (k WeekKey) Date() (time.Time, error) {
	d, err := time.Parse(WeekKeyLayout, string(k))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidWeekKey, string(k))
	}
	return d, nil
}

func (k WeekKey) String() string {
	return string(k)
}

// WeekKeyFromDate snaps a civil date to the Sunday on or before it.
func WeekKeyFromDate(year int, month time.Month, day int) WeekKey {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	d = d.AddDate(0, 0, -int(d.Weekday()))
	return WeekKey(d.Format(WeekKeyLayout))
}
