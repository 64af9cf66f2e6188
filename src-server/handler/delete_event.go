package handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bookd/src-server/model"
	"bookd/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func DeleteEvent(as *utils.AppState) {
	id := "delete-event"
	as.AddAppCmdHandler(id, deleteEventHandler(as))
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:        id,
		Description: "Delete a calendar event by its id.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "event-id",
				Description: "The id shown in the event's footer",
				Required:    true,
			},
		},
	})
}

func deleteEventHandler(as *utils.AppState) func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		var eventID string
		for _, opt := range i.ApplicationCommandData().Options {
			if opt.Name == "event-id" {
				eventID = opt.StringValue()
			}
		}
		if eventID == "" {
			utils.InteractRespHiddenReply(s, i, "Please provide an event id.")
			return nil
		}

		writeStart := time.Now()
		deleted, err := model.DeleteEvent(context.Background(), as.BunDB, i.ChannelID, eventID)
		select {
		case as.MetricChans.DatabaseWrite <- float64(time.Since(writeStart).Microseconds()):
		default:
		}
		if err != nil {
			slog.Error("can't delete event", "handler", "delete-event", "error", err)
			utils.InteractRespHiddenReply(s, i, "Can't delete the event, try again later.")
			return err
		}
		if !deleted {
			utils.InteractRespHiddenReply(s, i, fmt.Sprintf("No event `%s` in this channel.", eventID))
			return nil
		}

		utils.InteractRespHiddenReply(s, i, fmt.Sprintf("Event `%s` deleted.", eventID))
		return nil
	}
}
