package leaderboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"wanksy/bot/common"
	"wanksy/models"
)

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	teamChoice := common.TeamAllLabel
	page := 1

	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "team":
			teamChoice = opt.StringValue()
		case "page":
			page = int(opt.IntValue())
		}
	}

	if page < 1 {
		common.RespondWithError(s, i, "Page must be 1 or greater")
		return
	}

	embed, components, err := f.renderPage(context.Background(), i, teamChoice, page)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	}); err != nil {
		log.Errorf("Error responding to leaderboard command: %v", err)
	}
}

// handlePageButton re-renders the leaderboard message in place.
// Custom ID format: lb_page_<team>_<page>
func (f *Feature) handlePageButton(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	rest := strings.TrimPrefix(customID, "lb_page_")
	sep := strings.LastIndex(rest, "_")
	if sep < 0 {
		common.RespondWithError(s, i, "Unknown leaderboard interaction")
		return
	}

	teamChoice := rest[:sep]
	page, err := strconv.Atoi(rest[sep+1:])
	if err != nil || page < 1 {
		common.RespondWithError(s, i, "Unknown leaderboard interaction")
		return
	}

	embed, components, err := f.renderPage(context.Background(), i, teamChoice, page)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	}); err != nil {
		log.Errorf("Error updating leaderboard page: %v", err)
	}
}

func (f *Feature) renderPage(ctx context.Context, i *discordgo.InteractionCreate, teamChoice string, page int) (*discordgo.MessageEmbed, []discordgo.MessageComponent, error) {
	var teamFilter *models.Team
	if teamChoice != common.TeamAllLabel {
		team := models.Team(teamChoice)
		if !team.IsValid() {
			return nil, nil, common.NewUserError(
				fmt.Sprintf("Unknown team %q", teamChoice),
				"invalid team choice in leaderboard command")
		}
		teamFilter = &team
	}

	entries, err := f.ranking.Rank(ctx, teamFilter, f.excluded)
	if err != nil {
		return nil, nil, common.NewSystemError(err, "failed to build leaderboard ranking")
	}

	if len(entries) == 0 {
		return nil, nil, common.NewUserError("The leaderboard is empty", "leaderboard requested with no ranked users")
	}

	// Clamp instead of erroring; navigation buttons already stop at the bounds
	// but the page can also arrive as a command option.
	result := f.ranking.Page(entries, page, f.pageSize)
	if page > result.TotalPages {
		page = result.TotalPages
		result = f.ranking.Page(entries, page, f.pageSize)
	}

	var self *models.RankedEntry
	if i.Member != nil && i.Member.User != nil {
		if discordID, err := common.ParseDiscordID(i.Member.User.ID); err == nil {
			self = f.ranking.FindSelf(entries, discordID)
		}
	}

	// The team total is decoration; a failed sum never blocks the page.
	var teamTotal *int64
	if teamFilter != nil {
		if total, err := f.ranking.TeamTotal(ctx, *teamFilter); err != nil {
			log.WithError(err).Warn("Could not load team total for leaderboard")
		} else {
			teamTotal = &total
		}
	}

	embed := buildLeaderboardEmbed(teamChoice, result, page, self, teamTotal)
	components := buildNavButtons(teamChoice, page, result.TotalPages)

	log.WithFields(log.Fields{
		"team":  teamChoice,
		"page":  page,
		"total": result.TotalPages,
	}).Debug("Rendered leaderboard page")

	return embed, components, nil
}
