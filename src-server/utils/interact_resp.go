package utils

import "github.com/bwmarrin/discordgo"

// Pre-built discordgo interaction responses for convenience.

// InteractRespHiddenReply sends an ephemeral reply to the interaction.
func InteractRespHiddenReply(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags:   discordgo.MessageFlagsEphemeral,
			Content: content,
		},
	})
}

// InteractRespDefer acknowledges the interaction so a slower handler can edit
// the response later.
func InteractRespDefer(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}
