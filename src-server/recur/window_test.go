package recur_test

import (
	"testing"
	"time"

	"bookd/src-server/recur"
)

func TestWeekWindow(t *testing.T) {
	w := recur.WeekWindow(date(2024, time.June, 10))
	if !w.End.Equal(date(2024, time.June, 17)) {
		t.Errorf("end = %s, want 2024-06-17", w.End)
	}

	// rolls over month and year boundaries
	w = recur.WeekWindow(date(2024, time.December, 28))
	if !w.End.Equal(date(2025, time.January, 4)) {
		t.Errorf("end = %s, want 2025-01-04", w.End)
	}

	// rolls over leap February
	w = recur.WeekWindow(date(2024, time.February, 26))
	if !w.End.Equal(date(2024, time.March, 4)) {
		t.Errorf("end = %s, want 2024-03-04", w.End)
	}
}

func TestWindowIncludes(t *testing.T) {
	midMonth := recur.WeekWindow(date(2024, time.June, 10))     // Jun 10 - Jun 17
	crossMonth := recur.WeekWindow(date(2024, time.June, 28))   // Jun 28 - Jul 5
	crossYear := recur.WeekWindow(date(2024, time.December, 28)) // Dec 28 - Jan 4

	// daily and weekly anchors always reach into a 7-day window
	if !midMonth.Includes(recur.IntervalDaily, date(2020, time.January, 1)) {
		t.Error("daily anchor should always be included")
	}
	if !midMonth.Includes(recur.IntervalWeekly, date(2025, time.August, 30)) {
		t.Error("weekly anchor should always be included")
	}

	// monthly, window inside one month: day-of-month between the bounds
	if !midMonth.Includes(recur.IntervalMonthly, date(2023, time.January, 12)) {
		t.Error("day 12 should fall inside Jun 10-17")
	}
	if midMonth.Includes(recur.IntervalMonthly, date(2023, time.January, 20)) {
		t.Error("day 20 should fall outside Jun 10-17")
	}

	// monthly, window crossing a month boundary: either side qualifies
	if !crossMonth.Includes(recur.IntervalMonthly, date(2023, time.January, 30)) {
		t.Error("day 30 should fall inside Jun 28 - Jul 5")
	}
	if !crossMonth.Includes(recur.IntervalMonthly, date(2023, time.January, 3)) {
		t.Error("day 3 should fall inside Jun 28 - Jul 5")
	}
	if crossMonth.Includes(recur.IntervalMonthly, date(2023, time.January, 15)) {
		t.Error("day 15 should fall outside Jun 28 - Jul 5")
	}

	// a window ending on the month's last day catches clamped occurrences
	febTail := recur.Window{
		Start: date(2023, time.February, 22),
		End:   date(2023, time.February, 28),
	}
	if !febTail.Includes(recur.IntervalMonthly, date(2023, time.January, 31)) {
		t.Error("day-31 anchor should clamp into a window ending on Feb 28")
	}
	if !febTail.Includes(recur.IntervalYearly, date(2020, time.February, 29)) {
		t.Error("Feb 29 anniversary should clamp into a window ending on Feb 28")
	}

	// yearly: month/day against the window bounds
	if !midMonth.Includes(recur.IntervalYearly, date(2020, time.June, 15)) {
		t.Error("Jun 15 anniversary should fall inside Jun 10-17")
	}
	if midMonth.Includes(recur.IntervalYearly, date(2020, time.July, 15)) {
		t.Error("Jul 15 anniversary should fall outside Jun 10-17")
	}
	if !crossYear.Includes(recur.IntervalYearly, date(2019, time.January, 2)) {
		t.Error("Jan 2 anniversary should fall inside Dec 28 - Jan 4")
	}
	if !crossYear.Includes(recur.IntervalYearly, date(2019, time.December, 30)) {
		t.Error("Dec 30 anniversary should fall inside Dec 28 - Jan 4")
	}
	if crossYear.Includes(recur.IntervalYearly, date(2019, time.June, 15)) {
		t.Error("Jun 15 anniversary should fall outside Dec 28 - Jan 4")
	}

	// non-recurring: plain containment, bounds inclusive
	if !midMonth.Includes(recur.IntervalNone, date(2024, time.June, 10)) {
		t.Error("start bound should be included")
	}
	if !midMonth.Includes(recur.IntervalNone, date(2024, time.June, 17)) {
		t.Error("end bound should be included")
	}
	if midMonth.Includes(recur.IntervalNone, date(2024, time.June, 18)) {
		t.Error("date past the end should be excluded")
	}
}

func TestWindowDays(t *testing.T) {
	w := recur.WeekWindow(date(2024, time.December, 28))
	var got []recur.Date
	w.Days(func(d recur.Date) { got = append(got, d) })
	if len(got) != 8 {
		t.Errorf("Days visited %d dates, want 8", len(got))
	}
	if !got[0].Equal(w.Start) || !got[len(got)-1].Equal(w.End) {
		t.Errorf("Days range %s..%s, want %s..%s", got[0], got[len(got)-1], w.Start, w.End)
	}
}
