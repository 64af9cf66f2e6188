package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bookd/src-server/model"
	"bookd/src-server/recur"
	"bookd/src-server/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

func CreateEvent(as *utils.AppState) {
	id := "create-event"
	as.AddAppCmdHandler(id, createEventHandler(as))
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:        id,
		Description: "Create a calendar event, optionally recurring.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "title",
				Description: "The title of the event",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "date",
				Description: "The date of the first occurrence",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "start",
				Description: "When the event starts, e.g. 10:00",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "end",
				Description: "When the event ends, e.g. 11:00",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "repeat",
				Description: "How often the event repeats",
				Required:    false,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "daily", Value: "daily"},
					{Name: "weekly", Value: "weekly"},
					{Name: "monthly", Value: "monthly"},
					{Name: "yearly", Value: "yearly"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "notes",
				Description: "Anything worth remembering about the event",
				Required:    false,
			},
		},
	})
}

func createEventHandler(as *utils.AppState) func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		if err := utils.InteractRespDefer(s, i); err != nil {
			slog.Warn("can't respond", "handler", "create-event", "content", "deferring", "error", err)
		}

		optionMap := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(i.ApplicationCommandData().Options))
		for _, opt := range i.ApplicationCommandData().Options {
			optionMap[opt.Name] = opt
		}

		respondErr := func(msg string) {
			if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
				Content: &msg,
			}); err != nil {
				slog.Warn("can't respond", "handler", "create-event", "error", err)
			}
		}

		// #region - parse options into a model
		eventModel := model.Event{
			ID:         uuid.NewString(),
			CalendarID: i.ChannelID,
		}
		if opt, ok := optionMap["title"]; ok {
			eventModel.Title = utils.CleanupEventTitle(opt.StringValue())
		}
		if opt, ok := optionMap["notes"]; ok {
			eventModel.Notes = utils.CollapseWhitespace(opt.StringValue())
		}
		if opt, ok := optionMap["repeat"]; ok {
			interval, err := recur.ParseInterval(opt.StringValue())
			if err != nil {
				respondErr(fmt.Sprintf("Can't parse repeat\n```\n%s\n```", err.Error()))
				return nil
			}
			eventModel.Recurrence = string(interval)
		}

		now := time.Now().In(as.Config.GetLocation())
		anchor, err := func() (recur.Date, error) {
			opt, ok := optionMap["date"]
			if !ok {
				return recur.Date{}, fmt.Errorf("date is required")
			}
			result, err := as.When.Parse(opt.StringValue(), now)
			if err != nil {
				return recur.Date{}, err
			}
			if result == nil {
				return recur.Date{}, fmt.Errorf("can't understand %q as a date", opt.StringValue())
			}
			return recur.DateOf(result.Time), nil
		}()
		if err != nil {
			respondErr(fmt.Sprintf("Can't parse date\n```\n%s\n```", err.Error()))
			return nil
		}
		eventModel.Year = anchor.Year
		eventModel.Month = int(anchor.Month)
		eventModel.Day = anchor.Day

		parseClock := func(name string) (recur.TimeOfDay, error) {
			opt, ok := optionMap[name]
			if !ok {
				return recur.TimeOfDay{}, fmt.Errorf("%s is required", name)
			}
			result, err := as.When.Parse(opt.StringValue(), now)
			if err != nil {
				return recur.TimeOfDay{}, err
			}
			if result == nil {
				return recur.TimeOfDay{}, fmt.Errorf("can't understand %q as a time", opt.StringValue())
			}
			return recur.TimeOfDay{Hour: result.Time.Hour(), Minute: result.Time.Minute()}, nil
		}
		start, err := parseClock("start")
		if err != nil {
			respondErr(fmt.Sprintf("Can't parse start time\n```\n%s\n```", err.Error()))
			return nil
		}
		end, err := parseClock("end")
		if err != nil {
			respondErr(fmt.Sprintf("Can't parse end time\n```\n%s\n```", err.Error()))
			return nil
		}
		eventModel.StartMin = start.MinuteOfDay()
		eventModel.EndMin = end.MinuteOfDay()
		// #endregion

		// #region - validate & insert
		if err := model.EnsureCalendar(context.Background(), as.BunDB, i.ChannelID, ""); err != nil {
			slog.Error("can't ensure calendar", "handler", "create-event", "error", err)
			respondErr("Can't create the event, try again later.")
			return err
		}

		checkStart := time.Now()
		conflicts, err := model.CreateEvent(context.Background(), as.BunDB, &eventModel)
		select {
		case as.MetricChans.OverlapCheck <- float64(time.Since(checkStart).Microseconds()):
		default:
		}
		switch {
		case errors.Is(err, recur.ErrInvalidDate):
			respondErr(fmt.Sprintf("`%s` is not a real date, check the day of the month.", anchor))
			return nil
		case errors.Is(err, recur.ErrInvalidTimeRange):
			respondErr(fmt.Sprintf("`%s` must end after it starts (%s-%s).", eventModel.Title, start, end))
			return nil
		case errors.Is(err, recur.ErrOverlap):
			select {
			case as.MetricChans.EventRejected <- struct{}{}:
			default:
			}
			clashes := make([]string, 0, len(conflicts))
			for _, c := range conflicts {
				clashes = append(clashes, fmt.Sprintf("- **%s** (%s, %s)", c.Title, c.PrettyDate(), c.TimeRange()))
			}
			respondErr(fmt.Sprintf("This event would clash with:\n%s", strings.Join(clashes, "\n")))
			return nil
		case err != nil:
			slog.Error("can't create event", "handler", "create-event", "error", err)
			respondErr("Can't create the event, try again later.")
			return err
		}
		// #endregion

		msg := "Event created."
		if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Content: &msg,
			Embeds:  &[]*discordgo.MessageEmbed{eventModel.ToDiscordEmbed()},
		}); err != nil {
			slog.Warn("can't respond", "handler", "create-event", "content", "created", "error", err)
		}
		return nil
	}
}
