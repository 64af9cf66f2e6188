// Package recur decides whether calendar events, accounting for their
// recurrence, occupy a given calendar date. It is pure: no storage, no
// transport, no shared state. Callers feed it event snapshots and get back
// booleans or filtered slices.
package recur

import (
	"fmt"
	"time"
)

// Date is a plain calendar date. No time-of-day, no zone; comparisons are
// exact year/month/day comparisons and never go through time.Time except for
// weekday lookup and day arithmetic.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates a time.Time down to its calendar date.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) Equal(other Date) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) After(other Date) bool {
	return other.Before(d)
}

// Weekday of the date, proleptic Gregorian.
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

// AddDays returns the date n calendar days later, rolling over month and year
// boundaries.
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// TimeOfDay is a wall-clock (hour, minute) pair.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Before reports whether t is strictly earlier than other, comparing hour
// then minute.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	if t.Hour != other.Hour {
		return t.Hour < other.Hour
	}
	return t.Minute < other.Minute
}

// MinuteOfDay returns minutes since midnight, the form the storage layer
// keeps for its time-overlap queries.
func (t TimeOfDay) MinuteOfDay() int {
	return t.Hour*60 + t.Minute
}

// TimeOfMinute is the inverse of MinuteOfDay.
func TimeOfMinute(min int) TimeOfDay {
	return TimeOfDay{Hour: min / 60, Minute: min % 60}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Interval is the recurrence of an event. The zero value IntervalNone means
// the event happens once. Every switch over an Interval handles all five
// variants.
type Interval string

const (
	IntervalNone    Interval = ""
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
	IntervalYearly  Interval = "yearly"
)

// ParseInterval normalizes a user- or storage-supplied recurrence tag.
// "none" and the empty string both mean no recurrence.
func ParseInterval(s string) (Interval, error) {
	switch Interval(s) {
	case IntervalNone, Interval("none"):
		return IntervalNone, nil
	case IntervalDaily:
		return IntervalDaily, nil
	case IntervalWeekly:
		return IntervalWeekly, nil
	case IntervalMonthly:
		return IntervalMonthly, nil
	case IntervalYearly:
		return IntervalYearly, nil
	default:
		return IntervalNone, fmt.Errorf("ParseInterval: unknown interval %q", s)
	}
}

// Recurring reports whether the interval repeats at all.
func (iv Interval) Recurring() bool {
	return iv != IntervalNone
}

// Event is the anchor occurrence of a possibly recurring activity, as the
// engine sees it. Recurrence moves the date only; the Start/End window holds
// on every occurrence.
type Event struct {
	Date       Date
	Start      TimeOfDay
	End        TimeOfDay
	Recurrence Interval
	Notes      string
}
