package wallet

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"wanksy/bot/common"
	"wanksy/events"
)

func (f *Feature) handleUpdateWallet(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, err := common.ParseDiscordID(i.Member.User.ID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	token, err := f.linking.IssueToken(ctx, discordID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to issue link token"), false)
		return
	}

	link := fmt.Sprintf("%s?token=%s", f.linkBaseURL, token.Token)
	embed := &discordgo.MessageEmbed{
		Title: "🔗 Link your wallet",
		Description: fmt.Sprintf(
			"Connect your wallet here: %s\nThe link is valid for a few minutes. I'll ping you once it goes through.",
			link),
		Color: common.ColorInfo,
	}
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		log.Errorf("Error responding to updatewallet command: %v", err)
		return
	}

	stop := f.linking.WatchLink(ctx, discordID,
		func(address string) {
			f.clearWatcher(discordID)
			f.bus.Emit(context.Background(), events.WalletLinkedEvent{
				DiscordID: discordID,
				Address:   address,
			})
			f.followUp(s, i, fmt.Sprintf("✅ Wallet `%s` linked. Welcome aboard.", address))
		},
		func() {
			f.clearWatcher(discordID)
			f.followUp(s, i, "⏱️ Wallet link timed out. Run /updatewallet to get a fresh link.")
		})

	f.trackWatcher(discordID, stop)
}

func (f *Feature) followUp(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		log.Warnf("Error sending wallet link follow-up: %v", err)
	}
}
