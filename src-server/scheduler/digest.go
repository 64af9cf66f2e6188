package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bookd/src-server/model"
	"bookd/src-server/recur"
	"bookd/src-server/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
)

// Start wires the cron jobs: a morning digest per calendar and a reminder
// sweep for occurrences starting soon. The cron stops on graceful shutdown.
func Start(as *utils.AppState) error {
	c := cron.New()

	if _, err := c.AddFunc(as.Config.GetDigestCronSpec(), func() {
		dailyDigest(as)
	}); err != nil {
		return fmt.Errorf("scheduler.Start: can't schedule digest: %w", err)
	}
	if _, err := c.AddFunc("*/5 * * * *", func() {
		remindUpcoming(as)
	}); err != nil {
		return fmt.Errorf("scheduler.Start: can't schedule reminders: %w", err)
	}

	c.Start()
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		<-*gracefulShutdownCh
		<-c.Stop().Done()
	}()
	return nil
}

// dailyDigest posts each calendar's occurrences for the day into its channel.
func dailyDigest(as *utils.AppState) {
	today := recur.DateOf(time.Now().In(as.Config.GetLocation()))

	calendarModels := make([]model.Calendar, 0)
	if err := as.BunDB.NewSelect().
		Model(&calendarModels).
		Scan(context.Background()); err != nil {
		slog.Error("can't get calendars", "scheduler", "digest", "error", err)
		return
	}

	for _, calendarModel := range calendarModels {
		occurring, err := occurringOnDay(as, calendarModel.ChannelID, today)
		if err != nil {
			slog.Error("can't get today's events", "scheduler", "digest",
				"calendar", calendarModel.ChannelID, "error", err)
			continue
		}
		if len(occurring) == 0 {
			continue
		}

		embeds := make([]*discordgo.MessageEmbed, len(occurring))
		for i, eventModel := range occurring {
			embeds[i] = eventModel.ToDiscordEmbed()
		}
		if _, err := as.DgSession.ChannelMessageSendComplex(
			calendarModel.ChannelID,
			&discordgo.MessageSend{
				Content: fmt.Sprintf("Today's schedule (%s):", today),
				Embeds:  embeds,
			},
		); err != nil {
			slog.Error("can't send digest", "scheduler", "digest",
				"channel", calendarModel.ChannelID, "error", err)
		}
	}
}

// remindUpcoming pings the channel for occurrences starting within the next
// 15 minutes, at most once per occurrence.
func remindUpcoming(as *utils.AppState) {
	now := time.Now().In(as.Config.GetLocation())
	today := recur.DateOf(now)
	todayKey := model.DateKey(today)
	nowMin := now.Hour()*60 + now.Minute()

	calendarModels := make([]model.Calendar, 0)
	if err := as.BunDB.NewSelect().
		Model(&calendarModels).
		Scan(context.Background()); err != nil {
		slog.Error("can't get calendars", "scheduler", "remind", "error", err)
		return
	}

	for _, calendarModel := range calendarModels {
		occurring, err := occurringOnDay(as, calendarModel.ChannelID, today)
		if err != nil {
			slog.Error("can't get today's events", "scheduler", "remind",
				"calendar", calendarModel.ChannelID, "error", err)
			continue
		}

		for _, eventModel := range occurring {
			if eventModel.StartMin < nowMin || eventModel.StartMin >= nowMin+15 {
				continue
			}
			if eventModel.LastNotified == todayKey {
				continue
			}

			if _, err := as.DgSession.ChannelMessageSendComplex(
				calendarModel.ChannelID,
				&discordgo.MessageSend{
					Content: fmt.Sprintf("Starting at %s:",
						recur.TimeOfMinute(eventModel.StartMin)),
					Embeds: []*discordgo.MessageEmbed{eventModel.ToDiscordEmbed()},
				},
			); err != nil {
				slog.Error("can't send reminder", "scheduler", "remind",
					"channel", calendarModel.ChannelID, "error", err)
				continue
			}

			if _, err := as.BunDB.NewUpdate().
				Model((*model.Event)(nil)).
				Set("last_notified = ?", todayKey).
				Where("id = ?", eventModel.ID).
				Exec(context.Background()); err != nil {
				slog.Error("can't update last_notified", "scheduler", "remind",
					"event", eventModel.ID, "error", err)
			}
		}
	}
}

func occurringOnDay(as *utils.AppState, calendarID string, day recur.Date) ([]model.Event, error) {
	candidates, err := model.WindowCandidates(
		context.Background(), as.BunDB, calendarID,
		recur.Window{Start: day, End: day},
	)
	if err != nil {
		return nil, err
	}
	return model.OccurringOn(candidates, day), nil
}
