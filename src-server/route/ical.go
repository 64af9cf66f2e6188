package route

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"bookd/src-server/model"
	"bookd/src-server/recur"
	"bookd/src-server/utils"

	ics "github.com/arran4/golang-ical"
	"github.com/xyedo/rrule"
)

// Ical serves a channel's calendar as an ics feed so the events show up in
// regular calendar clients. Recurrence travels as an RRULE on the anchor
// occurrence; clients do their own expansion, end-of-month clamping included.
func Ical(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /ical/{calendar_id}", func(w http.ResponseWriter, r *http.Request) {
		calendarID := r.PathValue("calendar_id")

		calendarModel := new(model.Calendar)
		if err := as.BunDB.NewSelect().
			Model(calendarModel).
			Where("channel_id = ?", calendarID).
			Scan(r.Context(), calendarModel); err != nil {
			http.Error(w, "Calendar not found", http.StatusNotFound)
			return
		}

		eventModels := make([]model.Event, 0)
		if err := as.BunDB.NewSelect().
			Model(&eventModels).
			Where("calendar_id = ?", calendarID).
			Scan(r.Context()); err != nil {
			slog.Error("can't get events", "route", "ical", "error", err)
			http.Error(w, "Can't get events", http.StatusInternalServerError)
			return
		}

		icalCalendar, err := buildIcalFeed(calendarModel.Name, eventModels, as.Config.GetLocation())
		if err != nil {
			slog.Error("can't build ical feed", "route", "ical", "error", err)
			http.Error(w, "Can't build feed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/calendar")
		w.Header().Set("Content-Disposition", `attachment; filename="`+calendarModel.Name+`.ics"`)
		if _, err := w.Write([]byte(icalCalendar.Serialize())); err != nil {
			slog.Warn("can't write ical response", "route", "ical", "error", err)
		}
	})
}

func buildIcalFeed(name string, eventModels []model.Event, loc *time.Location) (*ics.Calendar, error) {
	icalCalendar := ics.NewCalendar()
	icalCalendar.SetMethod(ics.MethodPublish)
	icalCalendar.SetXWRCalName(name)

	for _, eventModel := range eventModels {
		start := recur.TimeOfMinute(eventModel.StartMin)
		end := recur.TimeOfMinute(eventModel.EndMin)
		icalEvent := icalCalendar.AddEvent(eventModel.ID)
		icalEvent.SetDtStampTime(time.Unix(eventModel.CreatedAt, 0).UTC())
		icalEvent.SetStartAt(time.Date(
			eventModel.Year, time.Month(eventModel.Month), eventModel.Day,
			start.Hour, start.Minute, 0, 0, loc))
		icalEvent.SetEndAt(time.Date(
			eventModel.Year, time.Month(eventModel.Month), eventModel.Day,
			end.Hour, end.Minute, 0, 0, loc))
		icalEvent.SetSummary(eventModel.Title)
		if eventModel.Notes != "" {
			icalEvent.SetDescription(eventModel.Notes)
		}

		rruleStr, err := intervalToRRule(eventModel.Interval())
		if err != nil {
			return nil, fmt.Errorf("buildIcalFeed: %w", err)
		}
		if rruleStr != "" {
			icalEvent.AddRrule(rruleStr)
		}
	}

	return icalCalendar, nil
}

// intervalToRRule renders the recurrence variant as an RRULE string, empty
// for one-off events.
func intervalToRRule(iv recur.Interval) (string, error) {
	var freq rrule.Frequency
	switch iv {
	case recur.IntervalNone:
		return "", nil
	case recur.IntervalDaily:
		freq = rrule.DAILY
	case recur.IntervalWeekly:
		freq = rrule.WEEKLY
	case recur.IntervalMonthly:
		freq = rrule.MONTHLY
	case recur.IntervalYearly:
		freq = rrule.YEARLY
	default:
		return "", fmt.Errorf("intervalToRRule: unknown interval %q", iv)
	}
	r, err := rrule.NewRRule(rrule.ROption{Freq: freq})
	if err != nil {
		return "", fmt.Errorf("intervalToRRule: %w", err)
	}
	return r.String(), nil
}
