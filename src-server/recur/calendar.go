package recur

import (
	"fmt"
	"time"
)

// IsLeapYear implements the Gregorian rule: divisible by 4, except century
// years that are not divisible by 400.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var monthLengths = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// MonthDays returns the number of days in month, with February stretched to
// 29 when leap is true.
func MonthDays(leap bool, month time.Month) int {
	if month == time.February && leap {
		return 29
	}
	return monthLengths[month]
}

// lastDay is the last day-of-month of d's month in d's year.
func lastDay(d Date) int {
	return MonthDays(IsLeapYear(d.Year), d.Month)
}

// ValidateDate rejects dates whose day does not exist in that month/year.
// Every date must pass through here before being treated as well-formed.
func ValidateDate(d Date) error {
	if d.Month < time.January || d.Month > time.December {
		return fmt.Errorf("ValidateDate: month %d: %w", int(d.Month), ErrInvalidDate)
	}
	if d.Day < 1 || d.Day > MonthDays(IsLeapYear(d.Year), d.Month) {
		return fmt.Errorf("ValidateDate: %s: %w", d, ErrInvalidDate)
	}
	return nil
}
