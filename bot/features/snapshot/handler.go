package snapshot

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"wanksy/bot/common"
)

func (f *Feature) handleSnapshot(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	// Large populations make this slow; defer and follow up with the file
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		log.Errorf("Error deferring snapshot response: %v", err)
		return
	}

	csvText, err := f.snapshot.GenerateCSV(ctx, true)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "snapshot export failed"), true)
		return
	}

	tmp, err := os.CreateTemp("", "snapshot-*.csv")
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to create snapshot temp file"), true)
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(csvText); err != nil {
		tmp.Close()
		common.HandleError(s, i, common.NewSystemError(err, "failed to write snapshot temp file"), true)
		return
	}
	if _, err := tmp.Seek(0, 0); err != nil {
		tmp.Close()
		common.HandleError(s, i, common.NewSystemError(err, "failed to rewind snapshot temp file"), true)
		return
	}
	defer tmp.Close()

	filename := fmt.Sprintf("moola-snapshot-%s.csv", time.Now().UTC().Format("2006-01-02"))
	if _, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: "📋 Moola snapshot",
		Files: []*discordgo.File{
			{
				Name:        filename,
				ContentType: "text/csv",
				Reader:      tmp,
			},
		},
		Flags: discordgo.MessageFlagsEphemeral,
	}); err != nil {
		log.Errorf("Error sending snapshot attachment: %v", err)
	}
}
