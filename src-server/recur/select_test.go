package recur_test

import (
	"reflect"
	"testing"
	"time"

	"bookd/src-server/recur"
)

func event(d recur.Date, iv recur.Interval, notes string) recur.Event {
	return recur.Event{
		Date:       d,
		Start:      recur.TimeOfDay{Hour: 10},
		End:        recur.TimeOfDay{Hour: 11},
		Recurrence: iv,
		Notes:      notes,
	}
}

func TestOccursOn(t *testing.T) {
	target := date(2024, time.June, 10) // Monday

	// case: anchor on the target date always matches, recurrence or not
	if !recur.OccursOn(event(target, recur.IntervalNone, ""), target, recur.IntervalNone) {
		t.Error("same-date anchor should occur")
	}

	// case: past anchor projects forward by its own recurrence
	pastMonday := date(2024, time.June, 3)
	if !recur.OccursOn(event(pastMonday, recur.IntervalWeekly, ""), target, recur.IntervalNone) {
		t.Error("past weekly Monday should project onto a later Monday")
	}
	if !recur.OccursOn(event(date(2020, time.January, 1), recur.IntervalDaily, ""), target, recur.IntervalNone) {
		t.Error("past daily event should occur on every later date")
	}
	if recur.OccursOn(event(pastMonday, recur.IntervalNone, ""), target, recur.IntervalNone) {
		t.Error("past one-off event should never reach a later date")
	}

	// case: future anchor needs a recurring target to be pulled backward
	futureMonday := date(2024, time.June, 17)
	if recur.OccursOn(event(futureMonday, recur.IntervalNone, ""), target, recur.IntervalNone) {
		t.Error("future one-off should not land on an earlier plain date")
	}
	if !recur.OccursOn(event(futureMonday, recur.IntervalNone, ""), target, recur.IntervalWeekly) {
		t.Error("weekly target should project forward onto a future Monday anchor")
	}
	if !recur.OccursOn(event(futureMonday, recur.IntervalDaily, ""), target, recur.IntervalWeekly) {
		t.Error("future daily event should be pulled back by a recurring target")
	}
	if recur.OccursOn(event(futureMonday, recur.IntervalDaily, ""), target, recur.IntervalNone) {
		t.Error("future daily event should not reach an earlier plain date")
	}
	if !recur.OccursOn(event(date(2024, time.June, 18), recur.IntervalNone, ""), target, recur.IntervalDaily) {
		t.Error("daily target should reach any future anchor")
	}
	if recur.OccursOn(event(date(2024, time.June, 18), recur.IntervalNone, ""), target, recur.IntervalWeekly) {
		t.Error("weekly target should not reach a Tuesday anchor")
	}
}

func TestSelectOccurring(t *testing.T) {
	target := date(2024, time.June, 10) // Monday
	candidates := []recur.Event{
		event(date(2024, time.June, 3), recur.IntervalWeekly, "a"),
		event(date(2024, time.June, 4), recur.IntervalWeekly, "b"), // Tuesday
		event(date(2023, time.May, 1), recur.IntervalDaily, "c"),
		event(target, recur.IntervalNone, "d"),
		event(date(2024, time.July, 1), recur.IntervalNone, "e"),  // future, unreachable
		event(date(2024, time.June, 17), recur.IntervalDaily, "f"), // daily but still future
	}

	got := recur.SelectOccurring(candidates, target, recur.IntervalNone)

	notes := make([]string, 0, len(got))
	for _, e := range got {
		notes = append(notes, e.Notes)
	}
	// input order preserved, no re-sorting
	if want := []string{"a", "c", "d"}; !reflect.DeepEqual(notes, want) {
		t.Errorf("SelectOccurring = %v, want %v", notes, want)
	}

	// idempotent: same inputs, same output
	again := recur.SelectOccurring(candidates, target, recur.IntervalNone)
	if !reflect.DeepEqual(got, again) {
		t.Error("SelectOccurring should be idempotent")
	}

	// the input slice is never mutated
	if candidates[1].Notes != "b" || len(candidates) != 6 {
		t.Error("SelectOccurring should not touch its input")
	}
}
