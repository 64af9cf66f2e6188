package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bookd/src-server/model"
	"bookd/src-server/recur"
	"bookd/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func Events(as *utils.AppState) {
	id := "events"
	as.AddAppCmdHandler(id, eventsHandler(as))
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:        id,
		Description: "List this channel's events for the next 7 days.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "from",
				Description: "First day of the listing, defaults to today",
				Required:    false,
			},
		},
	})
}

func eventsHandler(as *utils.AppState) func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		if err := utils.InteractRespDefer(s, i); err != nil {
			slog.Warn("can't respond", "handler", "events", "content", "deferring", "error", err)
		}

		now := time.Now().In(as.Config.GetLocation())
		from := recur.DateOf(now)
		for _, opt := range i.ApplicationCommandData().Options {
			if opt.Name != "from" {
				continue
			}
			result, err := as.When.Parse(opt.StringValue(), now)
			if err != nil || result == nil {
				msg := fmt.Sprintf("Can't parse `%s` as a date.", opt.StringValue())
				if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
					Content: &msg,
				}); err != nil {
					slog.Warn("can't respond", "handler", "events", "error", err)
				}
				return nil
			}
			from = recur.DateOf(result.Time)
		}

		window := recur.WeekWindow(from)
		readStart := time.Now()
		candidates, err := model.WindowCandidates(context.Background(), as.BunDB, i.ChannelID, window)
		select {
		case as.MetricChans.DatabaseRead <- float64(time.Since(readStart).Microseconds()):
		default:
		}
		if err != nil {
			slog.Error("can't get window candidates", "handler", "events", "error", err)
			msg := "Can't get events, try again later."
			if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
				Content: &msg,
			}); err != nil {
				slog.Warn("can't respond", "handler", "events", "error", err)
			}
			return err
		}

		var sb strings.Builder
		total := 0
		window.Days(func(day recur.Date) {
			occurring := model.OccurringOn(candidates, day)
			if len(occurring) == 0 {
				return
			}
			total += len(occurring)
			fmt.Fprintf(&sb, "**%s**\n", time.Date(day.Year, day.Month, day.Day, 0, 0, 0, 0, time.UTC).Format("Mon, 02 Jan"))
			for _, e := range occurring {
				fmt.Fprintf(&sb, "- %s %s", e.TimeRange(), e.Title)
				if e.Recurrence != "" {
					fmt.Fprintf(&sb, " _(repeats %s)_", e.Recurrence)
				}
				sb.WriteString("\n")
			}
		})

		msg := sb.String()
		if total == 0 {
			msg = fmt.Sprintf("Nothing scheduled between %s and %s.", window.Start, window.End)
		}
		msg += fmt.Sprintf("\nSubscribe: http://%s:%s/ical/%s", as.Config.GetHostname(), as.Config.GetPort(), i.ChannelID)
		if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Content: &msg,
		}); err != nil {
			slog.Warn("can't respond", "handler", "events", "content", "listing", "error", err)
		}
		return nil
	}
}
