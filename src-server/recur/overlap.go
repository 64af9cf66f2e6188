package recur

// Per-interval predicates answering: does an event recurring at iv, anchored
// at anchor, occupy the date other? The predicates are direction-agnostic;
// callers choose which side is the anchor depending on whether they project a
// past event forward or a future event backward.

// RecursDaily reports whether iv is the daily interval. A daily event lands
// on every date, so callers short-circuit on this before the periodic checks.
func RecursDaily(iv Interval) bool {
	return iv == IntervalDaily
}

// OverlapsWeekly: same day-of-week.
func OverlapsWeekly(iv Interval, anchor, other Date) bool {
	return iv == IntervalWeekly && anchor.Weekday() == other.Weekday()
}

// OverlapsMonthly: same day-of-month, or end-of-month clamping. An event
// anchored on the 31st still fires on the 28th/29th/30th when other's month
// is shorter.
func OverlapsMonthly(iv Interval, anchor, other Date) bool {
	if iv != IntervalMonthly {
		return false
	}
	if last := lastDay(other); other.Day == last && anchor.Day >= last {
		return true
	}
	return other.Day == anchor.Day
}

// OverlapsYearly: same month, then the monthly-style day check. A Feb 29
// anchor clamps onto Feb 28 in non-leap years.
func OverlapsYearly(iv Interval, anchor, other Date) bool {
	if iv != IntervalYearly || anchor.Month != other.Month {
		return false
	}
	return OverlapsMonthly(IntervalMonthly, anchor, other)
}

// OverlapsAny combines the three periodic predicates. iv selects the branch,
// so at most one of them can hold. Daily and none are handled by callers and
// always report false here.
func OverlapsAny(iv Interval, anchor, other Date) bool {
	switch iv {
	case IntervalWeekly:
		return OverlapsWeekly(iv, anchor, other)
	case IntervalMonthly:
		return OverlapsMonthly(iv, anchor, other)
	case IntervalYearly:
		return OverlapsYearly(iv, anchor, other)
	case IntervalNone, IntervalDaily:
		return false
	default:
		return false
	}
}
