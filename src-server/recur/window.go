package recur

// Window is an inclusive date range handed to the storage layer to bound a
// candidate query. Includes is the inclusion rule the storage layer must
// honor; the engine defines it but never executes it against storage itself.
type Window struct {
	Start Date
	End   Date
}

// WeekWindow is the 7-day window starting at start, for "events in the next
// 7 days" queries. Calendar addition, so it rolls over month and year
// boundaries.
func WeekWindow(start Date) Window {
	return Window{Start: start, End: start.AddDays(7)}
}

// Includes reports whether an event anchored at anchor, recurring at iv, can
// place an occurrence inside the window. Anchors outside the window still
// qualify when their recurrence reaches into it:
//
//   - daily/weekly always can, once the window spans 7 days;
//   - monthly depends only on the day-of-month, with the window possibly
//     crossing a month boundary;
//   - yearly depends on the (month, day) pair against the window's bounds;
//   - non-recurring events qualify only when the anchor itself lies inside.
func (w Window) Includes(iv Interval, anchor Date) bool {
	switch iv {
	case IntervalDaily, IntervalWeekly:
		return true
	case IntervalMonthly:
		if w.Start.Year != w.End.Year || w.Start.Month != w.End.Month {
			return anchor.Day >= w.Start.Day || anchor.Day <= w.End.Day
		}
		// a window ending on the month's last day also catches clamped
		// occurrences of anchors past that day
		return anchor.Day >= w.Start.Day &&
			(anchor.Day <= w.End.Day || w.End.Day == lastDay(w.End))
	case IntervalYearly:
		afterStart := anchor.Month > w.Start.Month ||
			(anchor.Month == w.Start.Month && anchor.Day >= w.Start.Day)
		beforeEnd := anchor.Month < w.End.Month ||
			(anchor.Month == w.End.Month &&
				(anchor.Day <= w.End.Day || w.End.Day == lastDay(w.End)))
		if w.Start.Month > w.End.Month ||
			(w.Start.Month == w.End.Month && w.Start.Day > w.End.Day) {
			// window wraps the year boundary (late Dec into Jan)
			return afterStart || beforeEnd
		}
		return afterStart && beforeEnd
	case IntervalNone:
		return !anchor.Before(w.Start) && !anchor.After(w.End)
	default:
		return false
	}
}

// Days iterates the window's dates in order, both bounds included.
func (w Window) Days(fn func(Date)) {
	for d := w.Start; !d.After(w.End); d = d.AddDays(1) {
		fn(d)
	}
}
