package model

import (
	"context"
	"fmt"
	"time"

	"bookd/src-server/recur"

	"github.com/bwmarrin/discordgo"
	"github.com/uptrace/bun"
)

// Event is the stored anchor occurrence of a possibly recurring activity.
// The calendar date and the daily time window are kept as plain columns
// (year/month/day, minutes since midnight) so the overlap prefilter and the
// window fetch stay simple integer comparisons, with no timestamps and no
// zone math anywhere.
type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID         string `bun:"id,pk"`               // required
	CalendarID string `bun:"calendar_id,notnull"` // required
	Title      string `bun:"title,notnull"`       // required
	Notes      string `bun:"notes"`

	Year  int `bun:"year,notnull"`  // required
	Month int `bun:"month,notnull"` // required
	Day   int `bun:"day,notnull"`   // required

	StartMin int `bun:"start_min,notnull"` // minutes since midnight
	EndMin   int `bun:"end_min,notnull"`

	// one of "", "daily", "weekly", "monthly", "yearly"
	Recurrence string `bun:"recurrence"`

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`
	// dateKey of the last occurrence a reminder went out for; recurring
	// events get one reminder per occurrence, not one ever
	LastNotified int `bun:"last_notified"`

	Calendar *Calendar `bun:"rel:belongs-to,join:calendar_id=channel_id"`
}

// Date is the anchor date as the engine's calendar type.
func (e *Event) Date() recur.Date {
	return recur.Date{Year: e.Year, Month: time.Month(e.Month), Day: e.Day}
}

// Interval is the stored recurrence as the engine's variant. Unknown tags
// were rejected on the way in, so this is a plain cast.
func (e *Event) Interval() recur.Interval {
	return recur.Interval(e.Recurrence)
}

// Snapshot converts the row into the value the engine reasons about.
func (e *Event) Snapshot() recur.Event {
	return recur.Event{
		Date:       e.Date(),
		Start:      recur.TimeOfMinute(e.StartMin),
		End:        recur.TimeOfMinute(e.EndMin),
		Recurrence: e.Interval(),
		Notes:      e.Notes,
	}
}

// PrettyDate renders the anchor date for humans, e.g. "Mon, 10 Jun 2024".
func (e *Event) PrettyDate() string {
	return time.Date(e.Year, time.Month(e.Month), e.Day, 0, 0, 0, 0, time.UTC).
		Format("Mon, 02 Jan 2006")
}

// TimeRange renders the daily window, e.g. "10:00-11:00".
func (e *Event) TimeRange() string {
	return recur.TimeOfMinute(e.StartMin).String() + "-" + recur.TimeOfMinute(e.EndMin).String()
}

func (e *Event) ToDiscordEmbed() *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: e.Title,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Date",
				Value:  e.PrettyDate(),
				Inline: true,
			},
			{
				Name:   "Time",
				Value:  e.TimeRange(),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: e.ID,
		},
	}
	if e.Recurrence != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Repeats",
			Value:  e.Recurrence,
			Inline: true,
		})
	}
	if e.Notes != "" {
		embed.Description = e.Notes
	}
	return embed
}

// Upsert writes the event, inserting or updating depending on whether the id
// already exists. Field-shape validation happens here; date, time-order and
// overlap validation belong to CreateEvent, which consults the engine before
// calling Upsert.
func (e *Event) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case e.ID == "":
		return fmt.Errorf("(*Event).Upsert: event id is blank")
	case e.CalendarID == "":
		return fmt.Errorf("(*Event).Upsert: calendar id is blank")
	case e.Title == "":
		return fmt.Errorf("(*Event).Upsert: title is blank")
	case e.Year == 0 || e.Month == 0 || e.Day == 0:
		return fmt.Errorf("(*Event).Upsert: date is blank")
	}
	if _, err := recur.ParseInterval(e.Recurrence); err != nil {
		return fmt.Errorf("(*Event).Upsert: %w", err)
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UTC().Unix()
	}

	exists, err := db.NewSelect().
		Model((*Event)(nil)).
		Where("id = ?", e.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*Event).Upsert: %w", err)
	}

	switch exists {
	case true:
		e.UpdatedAt = time.Now().UTC().Unix()
		if _, err := db.NewUpdate().
			Model(e).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	case false:
		if _, err := db.NewInsert().
			Model(e).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	}

	return nil
}
