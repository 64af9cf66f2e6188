package recur

// OccursOn reports whether a single candidate event lands on target.
// targetInterval is the recurrence of the event being checked against the
// candidates (IntervalNone when the target is a plain date, e.g. a day in a
// listing).
//
// Direction matters. A candidate anchored before the target projects forward
// by its own recurrence. A candidate anchored after the target can only be
// pulled backward onto it when the target itself recurs: then the target
// projects forward onto the candidate's anchor, so the anchor/target argument
// order flips.
func OccursOn(c Event, target Date, targetInterval Interval) bool {
	anchor := c.Date
	switch {
	case anchor.Equal(target):
		return true
	case anchor.Before(target):
		return RecursDaily(c.Recurrence) || OverlapsAny(c.Recurrence, anchor, target)
	default:
		if !targetInterval.Recurring() {
			return false
		}
		return RecursDaily(c.Recurrence) ||
			RecursDaily(targetInterval) ||
			OverlapsAny(targetInterval, target, anchor)
	}
}

// SelectOccurring filters candidates down to the ones occupying target,
// preserving input order. Pure: the input slice is never touched and the
// result is freshly allocated.
func SelectOccurring(candidates []Event, target Date, targetInterval Interval) []Event {
	occurring := make([]Event, 0, len(candidates))
	for _, c := range candidates {
		if OccursOn(c, target, targetInterval) {
			occurring = append(occurring, c)
		}
	}
	return occurring
}
