package recur_test

import (
	"errors"
	"testing"
	"time"

	"bookd/src-server/recur"
)

func TestValidateNewEvent(t *testing.T) {
	// an open-ended weekly standup, Mondays 10:00-11:00
	standup := recur.Event{
		Date:       date(2024, time.June, 3),
		Start:      recur.TimeOfDay{Hour: 10},
		End:        recur.TimeOfDay{Hour: 11},
		Recurrence: recur.IntervalWeekly,
	}

	// case: next Monday 10:30-11:30 clashes with the standup
	func() {
		ev := recur.Event{
			Date:  date(2024, time.June, 10),
			Start: recur.TimeOfDay{Hour: 10, Minute: 30},
			End:   recur.TimeOfDay{Hour: 11, Minute: 30},
		}
		err := recur.ValidateNewEvent(ev, []recur.Event{standup})
		if !errors.Is(err, recur.ErrOverlap) {
			t.Errorf("want ErrOverlap, got %v", err)
		}
	}()

	// case: same Monday 11:00-12:00 touches but does not overlap; the
	// time-only prefilter would not even hand the standup over
	func() {
		ev := recur.Event{
			Date:  date(2024, time.June, 10),
			Start: recur.TimeOfDay{Hour: 11},
			End:   recur.TimeOfDay{Hour: 12},
		}
		if err := recur.ValidateNewEvent(ev, nil); err != nil {
			t.Errorf("want nil, got %v", err)
		}
	}()

	// case: Feb 30 fails before any overlap reasoning
	func() {
		ev := recur.Event{
			Date:  date(2024, time.February, 30),
			Start: recur.TimeOfDay{Hour: 10},
			End:   recur.TimeOfDay{Hour: 11},
		}
		err := recur.ValidateNewEvent(ev, []recur.Event{standup})
		if !errors.Is(err, recur.ErrInvalidDate) {
			t.Errorf("want ErrInvalidDate, got %v", err)
		}
	}()

	// case: end before start fails before any overlap reasoning
	func() {
		ev := recur.Event{
			Date:  date(2024, time.June, 10),
			Start: recur.TimeOfDay{Hour: 14},
			End:   recur.TimeOfDay{Hour: 13},
		}
		err := recur.ValidateNewEvent(ev, []recur.Event{standup})
		if !errors.Is(err, recur.ErrInvalidTimeRange) {
			t.Errorf("want ErrInvalidTimeRange, got %v", err)
		}
	}()

	// case: equal start and end is not a valid range either
	func() {
		ev := recur.Event{
			Date:  date(2024, time.June, 10),
			Start: recur.TimeOfDay{Hour: 13},
			End:   recur.TimeOfDay{Hour: 13},
		}
		err := recur.ValidateNewEvent(ev, nil)
		if !errors.Is(err, recur.ErrInvalidTimeRange) {
			t.Errorf("want ErrInvalidTimeRange, got %v", err)
		}
	}()

	// case: a new weekly event a week before an existing one-off on the
	// same weekday is still a clash (future anchor pulled backward)
	func() {
		ev := recur.Event{
			Date:       date(2024, time.June, 3),
			Start:      recur.TimeOfDay{Hour: 10},
			End:        recur.TimeOfDay{Hour: 11},
			Recurrence: recur.IntervalWeekly,
		}
		oneOff := recur.Event{
			Date:  date(2024, time.June, 10),
			Start: recur.TimeOfDay{Hour: 10, Minute: 15},
			End:   recur.TimeOfDay{Hour: 10, Minute: 45},
		}
		err := recur.ValidateNewEvent(ev, []recur.Event{oneOff})
		if !errors.Is(err, recur.ErrOverlap) {
			t.Errorf("want ErrOverlap, got %v", err)
		}
	}()
}
