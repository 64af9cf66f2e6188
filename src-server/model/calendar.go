package model

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// One calendar per Discord channel; every event belongs to exactly one.
type Calendar struct {
	bun.BaseModel `bun:"table:calendars"`

	ChannelID string `bun:"channel_id,pk"` // required
	Name      string `bun:"name,notnull"`  // required

	Events []*Event `bun:"rel:has-many,join:channel_id=calendar_id"`
}

// EnsureCalendar creates the channel's calendar row if it doesn't exist yet.
func EnsureCalendar(ctx context.Context, db bun.IDB, channelID, name string) error {
	if channelID == "" {
		return fmt.Errorf("EnsureCalendar: channel id is blank")
	}
	if name == "" {
		name = "calendar-" + channelID
	}
	if _, err := db.NewInsert().
		Model(&Calendar{ChannelID: channelID, Name: name}).
		On("CONFLICT (channel_id) DO NOTHING").
		Exec(ctx); err != nil {
		return fmt.Errorf("EnsureCalendar: %w", err)
	}
	return nil
}
