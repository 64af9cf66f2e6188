package recur

import "fmt"

// ValidateNewEvent checks a new event against candidates whose daily time
// window intersects the new event's window. The candidate set comes from a
// time-only storage query and is NOT date-filtered; the date and recurrence
// reasoning happens here, against exactly one target date per candidate.
//
// Checks run in order: date validity, time order, then overlap. The returned
// error wraps ErrInvalidDate, ErrInvalidTimeRange or ErrOverlap.
func ValidateNewEvent(ev Event, candidates []Event) error {
	if err := ValidateDate(ev.Date); err != nil {
		return fmt.Errorf("ValidateNewEvent: %w", err)
	}
	if !ev.Start.Before(ev.End) {
		return fmt.Errorf("ValidateNewEvent: %s-%s: %w", ev.Start, ev.End, ErrInvalidTimeRange)
	}
	if clashing := SelectOccurring(candidates, ev.Date, ev.Recurrence); len(clashing) > 0 {
		return fmt.Errorf("ValidateNewEvent: %d occurrence(s) on %s: %w", len(clashing), ev.Date, ErrOverlap)
	}
	return nil
}
