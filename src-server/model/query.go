package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bookd/src-server/recur"

	"github.com/uptrace/bun"
)

// DateKey collapses a calendar date into one sortable integer for SQL range
// comparisons over the year/month/day columns.
func DateKey(d recur.Date) int {
	return d.Year*10000 + int(d.Month)*100 + d.Day
}

// OverlappingTimeCandidates returns every event in the calendar whose daily
// time window intersects [startMin, endMin). Deliberately NOT date-filtered:
// this is the cheap time-only prefilter, and the engine does the date and
// recurrence reasoning on whatever comes back.
func OverlappingTimeCandidates(ctx context.Context, db bun.IDB, calendarID string, startMin, endMin int) ([]Event, error) {
	events := make([]Event, 0)
	if err := db.NewSelect().
		Model(&events).
		Where("calendar_id = ?", calendarID).
		Where("start_min < ?", endMin).
		Where("end_min > ?", startMin).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("OverlappingTimeCandidates: %w", err)
	}
	return events, nil
}

// WindowCandidates returns the events that can place an occurrence inside the
// window. The SQL part is coarse: recurring rows come back unconditionally,
// non-recurring rows only when their anchor date lies inside the window. The
// engine's Window.Includes predicate then trims the recurring rows, which is
// as far as sqlite needs to understand recurrence.
func WindowCandidates(ctx context.Context, db bun.IDB, calendarID string, w recur.Window) ([]Event, error) {
	events := make([]Event, 0)
	if err := db.NewSelect().
		Model(&events).
		Where("calendar_id = ?", calendarID).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("recurrence != ''").
				WhereOr("(year * 10000 + month * 100 + day) BETWEEN ? AND ?",
					DateKey(w.Start), DateKey(w.End))
		}).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("WindowCandidates: %w", err)
	}

	included := make([]Event, 0, len(events))
	for _, e := range events {
		if w.Includes(e.Interval(), e.Date()) {
			included = append(included, e)
		}
	}
	return included, nil
}

// OccurringOn filters already-fetched rows down to the ones occupying day,
// preserving order. Used for per-day listings, so the target carries no
// recurrence of its own.
func OccurringOn(events []Event, day recur.Date) []Event {
	occurring := make([]Event, 0, len(events))
	for _, e := range events {
		if recur.OccursOn(e.Snapshot(), day, recur.IntervalNone) {
			occurring = append(occurring, e)
		}
	}
	return occurring
}

// CreateEvent validates e against existing occurrences and inserts it. The
// fetch-validate-insert sequence runs in one transaction so two concurrent
// creations cannot both observe an empty conflict set and commit.
//
// On recur.ErrOverlap the clashing rows come back alongside the error so
// callers can name them.
func CreateEvent(ctx context.Context, db *bun.DB, e *Event) ([]Event, error) {
	var conflicts []Event
	if err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		candidates, err := OverlappingTimeCandidates(ctx, tx, e.CalendarID, e.StartMin, e.EndMin)
		if err != nil {
			return fmt.Errorf("CreateEvent: %w", err)
		}

		snapshots := make([]recur.Event, 0, len(candidates))
		for _, c := range candidates {
			snapshots = append(snapshots, c.Snapshot())
		}

		if err := recur.ValidateNewEvent(e.Snapshot(), snapshots); err != nil {
			if errors.Is(err, recur.ErrOverlap) {
				conflicts = OccurringOnTarget(candidates, e.Date(), e.Interval())
			}
			return fmt.Errorf("CreateEvent: %w", err)
		}

		if err := e.Upsert(ctx, tx); err != nil {
			return fmt.Errorf("CreateEvent: %w", err)
		}
		return nil
	}); err != nil {
		return conflicts, err
	}
	return nil, nil
}

// OccurringOnTarget mirrors the engine's selection over model rows, keeping
// the target's own recurrence in play. Used to report which rows clashed.
func OccurringOnTarget(events []Event, target recur.Date, targetInterval recur.Interval) []Event {
	occurring := make([]Event, 0, len(events))
	for _, e := range events {
		if recur.OccursOn(e.Snapshot(), target, targetInterval) {
			occurring = append(occurring, e)
		}
	}
	return occurring
}

// DeleteEvent removes one event by id, reporting whether a row existed.
func DeleteEvent(ctx context.Context, db bun.IDB, calendarID, eventID string) (bool, error) {
	res, err := db.NewDelete().
		Model((*Event)(nil)).
		Where("id = ?", eventID).
		Where("calendar_id = ?", calendarID).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("DeleteEvent: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("DeleteEvent: %w", err)
	}
	return affected > 0, nil
}
