package recur

import "errors"

var (
	// ErrInvalidDate means the day-of-month is out of range for that
	// month/year, leap years included.
	ErrInvalidDate = errors.New("day out of range for month")

	// ErrInvalidTimeRange means the end time does not strictly follow the
	// start time.
	ErrInvalidTimeRange = errors.New("end time must be after start time")

	// ErrOverlap means at least one existing occurrence shares both the
	// calendar date and part of the time window with the new event.
	ErrOverlap = errors.New("event overlaps an existing occurrence")
)
