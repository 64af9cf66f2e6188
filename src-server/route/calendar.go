package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"bookd/src-server/model"
	"bookd/src-server/recur"
	"bookd/src-server/utils"

	"github.com/google/uuid"
)

type oneEventRespBody struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Notes      string `json:"notes,omitempty"`
	Date       string `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Recurrence string `json:"recurrence,omitempty"`
}

func eventResp(e model.Event, day recur.Date) oneEventRespBody {
	return oneEventRespBody{
		ID:         e.ID,
		Title:      e.Title,
		Notes:      e.Notes,
		Date:       day.String(),
		Start:      recur.TimeOfMinute(e.StartMin).String(),
		End:        recur.TimeOfMinute(e.EndMin).String(),
		Recurrence: e.Recurrence,
	}
}

func Calendar(muxer *http.ServeMux, as *utils.AppState) {
	type getEventsReqBody struct {
		CalendarID string `json:"calendarId"`
		StartDate  string `json:"startDate"` // YYYY-MM-DD
	}

	// events for the 7-day window starting at startDate, grouped by day;
	// recurring events show up once per occurrence
	muxer.HandleFunc("POST /calendar/get-events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var reqBody getEventsReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if reqBody.CalendarID == "" {
			http.Error(w, "Please provide a calendar id", http.StatusBadRequest)
			return
		}

		start, err := parseDate(reqBody.StartDate)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		window := recur.WeekWindow(start)
		readStart := time.Now()
		candidates, err := model.WindowCandidates(r.Context(), as.BunDB, reqBody.CalendarID, window)
		select {
		case as.MetricChans.DatabaseRead <- float64(time.Since(readStart).Microseconds()):
		default:
		}
		if err != nil {
			slog.Error("can't get window candidates", "route", "get-events", "error", err)
			http.Error(w, "Can't get events", http.StatusInternalServerError)
			return
		}

		respBody := make(map[string][]oneEventRespBody)
		window.Days(func(day recur.Date) {
			for _, e := range model.OccurringOn(candidates, day) {
				respBody[day.String()] = append(respBody[day.String()], eventResp(e, day))
			}
		})

		if err := json.NewEncoder(w).Encode(respBody); err != nil {
			slog.Error("can't encode response", "route", "get-events", "error", err)
		}
	})

	type createEventReqBody struct {
		CalendarID string `json:"calendarId"`
		Title      string `json:"title"`
		Notes      string `json:"notes"`
		Date       string `json:"date"` // YYYY-MM-DD
		Start      string `json:"start"`
		End        string `json:"end"`
		Recurrence string `json:"recurrence"`
	}

	// create an event; invalid dates/times map to 400, schedule conflicts
	// to 409
	muxer.HandleFunc("POST /calendar/create-event", func(w http.ResponseWriter, r *http.Request) {
		var reqBody createEventReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if reqBody.CalendarID == "" || reqBody.Title == "" {
			http.Error(w, "Please provide a calendar id and a title", http.StatusBadRequest)
			return
		}

		anchor, err := parseDate(reqBody.Date)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		startTime, err := parseClock(reqBody.Start)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		endTime, err := parseClock(reqBody.End)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		interval, err := recur.ParseInterval(reqBody.Recurrence)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		eventModel := model.Event{
			ID:         uuid.NewString(),
			CalendarID: reqBody.CalendarID,
			Title:      utils.CleanupEventTitle(reqBody.Title),
			Notes:      utils.CollapseWhitespace(reqBody.Notes),
			Year:       anchor.Year,
			Month:      int(anchor.Month),
			Day:        anchor.Day,
			StartMin:   startTime.MinuteOfDay(),
			EndMin:     endTime.MinuteOfDay(),
			Recurrence: string(interval),
		}

		if err := model.EnsureCalendar(r.Context(), as.BunDB, reqBody.CalendarID, ""); err != nil {
			slog.Error("can't ensure calendar", "route", "create-event", "error", err)
			http.Error(w, "Can't create event", http.StatusInternalServerError)
			return
		}

		checkStart := time.Now()
		conflicts, err := model.CreateEvent(r.Context(), as.BunDB, &eventModel)
		select {
		case as.MetricChans.OverlapCheck <- float64(time.Since(checkStart).Microseconds()):
		default:
		}
		switch {
		case errors.Is(err, recur.ErrInvalidDate), errors.Is(err, recur.ErrInvalidTimeRange):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, recur.ErrOverlap):
			select {
			case as.MetricChans.EventRejected <- struct{}{}:
			default:
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			clashes := make([]oneEventRespBody, 0, len(conflicts))
			for _, c := range conflicts {
				clashes = append(clashes, eventResp(c, anchor))
			}
			json.NewEncoder(w).Encode(map[string]any{
				"error":     "event overlaps an existing occurrence",
				"conflicts": clashes,
			})
			return
		case err != nil:
			slog.Error("can't create event", "route", "create-event", "error", err)
			http.Error(w, "Can't create event", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(eventResp(eventModel, anchor))
	})
}

// parseDate splits YYYY-MM-DD without range-checking the day; day-of-month
// validity is the engine's call, so Feb 30 gets through here and is rejected
// with the engine's invalid-date error instead of a parse error.
func parseDate(s string) (recur.Date, error) {
	var y, m, d int
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &y, &m, &d); err != nil {
		return recur.Date{}, fmt.Errorf("can't parse %q as YYYY-MM-DD", s)
	}
	return recur.Date{Year: y, Month: time.Month(m), Day: d}, nil
}

func parseClock(s string) (recur.TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return recur.TimeOfDay{}, fmt.Errorf("can't parse %q as HH:MM", s)
	}
	return recur.TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}
