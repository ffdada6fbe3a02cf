package settings

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"wanksy/bot/common"
)

func (f *Feature) handleSettings(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Missing settings subcommand")
		return
	}

	switch options[0].Name {
	case "wl-minimum":
		f.handleWLMinimum(s, i, options[0])
	default:
		common.RespondWithError(s, i, fmt.Sprintf("Unknown settings subcommand %q", options[0].Name))
	}
}

func (f *Feature) handleWLMinimum(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	var value int64 = -1
	for _, opt := range sub.Options {
		if opt.Name == "value" {
			value = opt.IntValue()
		}
	}
	if value < 0 {
		common.RespondWithError(s, i, "Whitelist minimum must be 0 or greater")
		return
	}

	previous := f.settings.WLMinimum()
	if err := f.settings.SetWLMinimum(context.Background(), value); err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to update whitelist minimum"), false)
		return
	}

	log.WithFields(log.Fields{
		"previous":   previous,
		"new":        value,
		"updated_by": i.Member.User.ID,
	}).Info("Whitelist minimum updated")

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("⚙️ Whitelist minimum updated: **%s** → **%s**",
				common.FormatMoola(previous), common.FormatMoola(value)),
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		log.Errorf("Error responding to settings command: %v", err)
	}
}
