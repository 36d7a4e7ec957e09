package models

import (
	"fmt"
	"math"
	"time"
)

const dayKeyLayout = "2006-01-02"

// StartOfDay returns 00:00:00 of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns the last nanosecond of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), loc)
}

// DateRange is an inclusive whole-day rental interval. Start is the first
// instant of the pickup day, End the last instant of the return day. All
// overlap and pricing arithmetic in the system goes through this type so
// that time-of-day noise in the input never affects comparisons.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalizes a pickup/return pair to day boundaries in loc.
// A return day before the pickup day is rejected; pickup == return is a
// valid one-day rental.
func NewDateRange(pickup, returnDate time.Time, loc *time.Location) (DateRange, error) {
	if pickup.IsZero() || returnDate.IsZero() {
		return DateRange{}, fmt.Errorf("pickup and return dates are required")
	}
	r := DateRange{
		Start: StartOfDay(pickup, loc),
		End:   EndOfDay(returnDate, loc),
	}
	if r.End.Before(r.Start) {
		return DateRange{}, fmt.Errorf("return date must not be before pickup date")
	}
	return r, nil
}

// ParseDate accepts "2006-01-02" or RFC3339 input.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(dayKeyLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// Days is the inclusive day count: pickup == return counts as one day.
// Rounding absorbs DST transitions for non-UTC day boundaries.
func (r DateRange) Days() int {
	last := StartOfDay(r.End, r.End.Location())
	return int(math.Round(last.Sub(r.Start).Hours()/24)) + 1
}

// DayKeys lists every occupied calendar day as "2006-01-02", in order.
// These keys back the per-day uniqueness claim in the store.
func (r DateRange) DayKeys() []string {
	keys := make([]string, 0, r.Days())
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		keys = append(keys, d.Format(dayKeyLayout))
	}
	return keys
}

// StartKey is the first occupied day as "2006-01-02".
func (r DateRange) StartKey() string {
	return r.Start.Format(dayKeyLayout)
}

// EndKey is the last occupied day as "2006-01-02".
func (r DateRange) EndKey() string {
	return r.End.Format(dayKeyLayout)
}

// Overlaps reports whether two inclusive ranges share at least one instant.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}
