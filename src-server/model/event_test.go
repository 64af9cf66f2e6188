package model_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"bookd/src-server/model"
	"bookd/src-server/recur"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := model.CreateSchema(bundb); err != nil {
		t.Fatal(err)
	}
	return bundb
}

func newEvent(calendarID string, y int, m time.Month, d, startMin, endMin int, recurrence string) *model.Event {
	return &model.Event{
		ID:         uuid.NewString(),
		CalendarID: calendarID,
		Title:      "test",
		Year:       y,
		Month:      int(m),
		Day:        d,
		StartMin:   startMin,
		EndMin:     endMin,
		Recurrence: recurrence,
	}
}

func TestCreateEvent(t *testing.T) {
	bundb := newTestDB(t)
	ctx := context.Background()

	calendarModel := model.Calendar{
		ChannelID: uuid.NewString(),
		Name:      "calendar name test",
	}
	if _, err := bundb.NewInsert().
		Model(&calendarModel).
		Exec(ctx); err != nil {
		t.Fatal(err)
	}

	// weekly standup, Monday 2024-06-03 10:00-11:00
	standup := newEvent(calendarModel.ChannelID, 2024, time.June, 3, 10*60, 11*60, "weekly")
	standup.Title = "standup"
	if _, err := model.CreateEvent(ctx, bundb, standup); err != nil {
		t.Fatal(err)
	}

	// case: next Monday 10:30-11:30 is rejected and the standup is named
	func() {
		ev := newEvent(calendarModel.ChannelID, 2024, time.June, 10, 10*60+30, 11*60+30, "")
		conflicts, err := model.CreateEvent(ctx, bundb, ev)
		if !errors.Is(err, recur.ErrOverlap) {
			t.Errorf("want ErrOverlap, got %v", err)
		}
		if len(conflicts) != 1 || conflicts[0].ID != standup.ID {
			t.Errorf("want standup as the conflict, got %+v", conflicts)
		}
	}()

	// case: next Monday 11:00-12:00 does not overlap in time and goes in
	func() {
		ev := newEvent(calendarModel.ChannelID, 2024, time.June, 10, 11*60, 12*60, "")
		if _, err := model.CreateEvent(ctx, bundb, ev); err != nil {
			t.Errorf("want nil, got %v", err)
		}
	}()

	// case: Tuesday same time is fine, the standup only recurs on Mondays
	func() {
		ev := newEvent(calendarModel.ChannelID, 2024, time.June, 11, 10*60, 11*60, "")
		if _, err := model.CreateEvent(ctx, bundb, ev); err != nil {
			t.Errorf("want nil, got %v", err)
		}
	}()

	// case: Feb 30 never reaches the overlap check
	func() {
		ev := newEvent(calendarModel.ChannelID, 2024, time.February, 30, 9*60, 10*60, "")
		if _, err := model.CreateEvent(ctx, bundb, ev); !errors.Is(err, recur.ErrInvalidDate) {
			t.Errorf("want ErrInvalidDate, got %v", err)
		}
	}()

	// case: end before start never reaches the overlap check
	func() {
		ev := newEvent(calendarModel.ChannelID, 2024, time.June, 12, 14*60, 13*60, "")
		if _, err := model.CreateEvent(ctx, bundb, ev); !errors.Is(err, recur.ErrInvalidTimeRange) {
			t.Errorf("want ErrInvalidTimeRange, got %v", err)
		}
	}()

	// case: unknown recurrence tag is rejected
	func() {
		ev := newEvent(calendarModel.ChannelID, 2024, time.June, 13, 9*60, 10*60, "fortnightly")
		if _, err := model.CreateEvent(ctx, bundb, ev); err == nil {
			t.Error("want error for unknown recurrence tag")
		}
	}()
}

func TestWindowCandidates(t *testing.T) {
	bundb := newTestDB(t)
	ctx := context.Background()

	calendarModel := model.Calendar{
		ChannelID: uuid.NewString(),
		Name:      "window test",
	}
	if _, err := bundb.NewInsert().
		Model(&calendarModel).
		Exec(ctx); err != nil {
		t.Fatal(err)
	}

	// window Jun 28 - Jul 5, crossing a month boundary
	window := recur.WeekWindow(recur.Date{Year: 2024, Month: time.June, Day: 28})

	inWindow := newEvent(calendarModel.ChannelID, 2024, time.July, 2, 9*60, 10*60, "")
	outOfWindow := newEvent(calendarModel.ChannelID, 2024, time.July, 20, 9*60, 10*60, "")
	daily := newEvent(calendarModel.ChannelID, 2023, time.January, 1, 8*60, 9*60, "daily")
	monthly30 := newEvent(calendarModel.ChannelID, 2024, time.January, 30, 12*60, 13*60, "monthly")
	monthly15 := newEvent(calendarModel.ChannelID, 2024, time.January, 15, 12*60, 13*60, "monthly")
	yearlyJul1 := newEvent(calendarModel.ChannelID, 2020, time.July, 1, 15*60, 16*60, "yearly")
	yearlyAug1 := newEvent(calendarModel.ChannelID, 2020, time.August, 1, 15*60, 16*60, "yearly")

	for _, e := range []*model.Event{inWindow, outOfWindow, daily, monthly30, monthly15, yearlyJul1, yearlyAug1} {
		if err := e.Upsert(ctx, bundb); err != nil {
			t.Fatal(err)
		}
	}

	got, err := model.WindowCandidates(ctx, bundb, calendarModel.ChannelID, window)
	if err != nil {
		t.Fatal(err)
	}

	wantIDs := map[string]bool{
		inWindow.ID:   true,
		daily.ID:      true,
		monthly30.ID:  true,
		yearlyJul1.ID: true,
	}
	if len(got) != len(wantIDs) {
		t.Errorf("got %d candidates, want %d", len(got), len(wantIDs))
	}
	for _, e := range got {
		if !wantIDs[e.ID] {
			t.Errorf("unexpected candidate %s (%s %d-%02d-%02d)", e.Title, e.Recurrence, e.Year, e.Month, e.Day)
		}
	}

	// the daily event lands on every day of the window, the one-off on its
	// anchor date only
	day := recur.Date{Year: 2024, Month: time.July, Day: 2}
	onDay := model.OccurringOn(got, day)
	foundDaily, foundOneOff := false, false
	for _, e := range onDay {
		switch e.ID {
		case daily.ID:
			foundDaily = true
		case inWindow.ID:
			foundOneOff = true
		}
	}
	if !foundDaily || !foundOneOff {
		t.Errorf("Jul 2 should list the daily event and the one-off, got %d rows", len(onDay))
	}
}

func TestDeleteEvent(t *testing.T) {
	bundb := newTestDB(t)
	ctx := context.Background()

	calendarModel := model.Calendar{
		ChannelID: uuid.NewString(),
		Name:      "delete test",
	}
	if _, err := bundb.NewInsert().
		Model(&calendarModel).
		Exec(ctx); err != nil {
		t.Fatal(err)
	}

	ev := newEvent(calendarModel.ChannelID, 2024, time.June, 3, 10*60, 11*60, "")
	if err := ev.Upsert(ctx, bundb); err != nil {
		t.Fatal(err)
	}

	deleted, err := model.DeleteEvent(ctx, bundb, calendarModel.ChannelID, ev.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !deleted {
		t.Error("expected a row to be deleted")
	}

	deleted, err = model.DeleteEvent(ctx, bundb, calendarModel.ChannelID, ev.ID)
	if err != nil {
		t.Fatal(err)
	}
	if deleted {
		t.Error("second delete should affect nothing")
	}
}
