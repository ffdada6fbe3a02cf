package leaderboard

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"wanksy/bot/common"
	"wanksy/service"
)

// Feature represents the leaderboard feature
type Feature struct {
	session  *discordgo.Session
	ranking  service.RankingService
	pageSize int
	excluded []int64
}

// NewFeature creates a new leaderboard feature instance
func NewFeature(session *discordgo.Session, ranking service.RankingService, pageSize int, excluded []int64) *Feature {
	return &Feature{
		session:  session,
		ranking:  ranking,
		pageSize: pageSize,
		excluded: excluded,
	}
}

// HandleCommand handles the /leaderboard slash command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleLeaderboard(s, i)
}

// HandleInteraction handles leaderboard navigation button clicks
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		log.Warnf("Unknown interaction type in leaderboard: %v", i.Type)
		return
	}

	customID := i.MessageComponentData().CustomID
	if strings.HasPrefix(customID, "lb_page_") {
		f.handlePageButton(s, i, customID)
		return
	}

	common.RespondWithError(s, i, "Unknown leaderboard interaction")
}
