package entry

import (
	"fmt"
	"time"
)

// DayLayout is the canonical calendar-day format. Lexicographic order of
// formatted days equals chronological order.
const DayLayout = "2006-01-02"

// DefaultDayBoundaryHour is the local hour before which a timestamp still
// belongs to the previous calendar day.
const DefaultDayBoundaryHour = 5

// Day is a calendar day with no time component.
// The zero value is not a valid day; check with IsZero.
type Day struct {
	t time.Time // always midnight UTC
}

// NewDay returns the day for the given year, month and day of month.
// Out-of-range values are normalized the way time.Date normalizes them.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return NewDay(y, m, d)
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return Day{t: t}, nil
}

// MustParseDay is like ParseDay but panics on error. Intended for tests and constants.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// LogicalDateOf returns the day an entry created at t is attributed to.
// Timestamps whose local hour is before boundaryHour count toward the
// previous calendar day. t is interpreted in its own location.
func LogicalDateOf(t time.Time, boundaryHour int) Day {
	d := DayOf(t)
	if t.Hour() < boundaryHour {
		return d.AddDays(-1)
	}
	return d
}

// WeekStartOf returns the Monday on or before d. Weeks run Monday through Sunday.
func WeekStartOf(d Day) Day {
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the week
	}
	return d.AddDays(-(weekday - 1))
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool {
	return d.t.IsZero()
}

// String formats d as YYYY-MM-DD.
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DayLayout)
}

// AddDays returns d shifted by n days.
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// Weekday returns the day of the week.
func (d Day) Weekday() time.Weekday {
	return d.t.Weekday()
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly later than other.
func (d Day) After(other Day) bool {
	return d.t.After(other.t)
}

// In returns midnight of d in loc.
func (d Day) In(loc *time.Location) time.Time {
	y, m, dd := d.t.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, loc)
}

// MarshalText implements encoding.TextMarshaler.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Day) UnmarshalText(b []byte) error {
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
