package handler

import (
	"fmt"

	"bookd/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func Ping(as *utils.AppState) {
	id := "ping"
	as.AddAppCmdHandler(id, func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		utils.InteractRespHiddenReply(s, i,
			fmt.Sprintf("Pong! `%dms`", s.HeartbeatLatency().Milliseconds()))
		return nil
	})
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:        id,
		Description: "Check if the bot is alive.",
	})
}
