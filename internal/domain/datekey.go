package domain

import "time"

// DateKey is the canonical year-month-day value events are grouped under.
// It is derived once per event from StartTime in the portal's display
// location, so time-of-day and timezone rendering differences never change
// which bucket an event lands in.
type DateKey string

const dateKeyLayout = "2006-01-02"

func NewDateKey(t time.Time, loc *time.Location) DateKey {
	if loc == nil {
		loc = time.Local
	}
	return DateKey(t.In(loc).Format(dateKeyLayout))
}

// DateKeyOf is NewDateKey for a date that is already a local calendar day.
func DateKeyOf(t time.Time) DateKey {
	return DateKey(t.Format(dateKeyLayout))
}

// Time returns the midnight instant of the key in loc. Returns the zero
// time for a malformed key.
func (k DateKey) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dateKeyLayout, string(k), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (k DateKey) Valid() bool {
	_, err := time.Parse(dateKeyLayout, string(k))
	return err == nil
}
