package leaderboard

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"wanksy/bot/common"
	"wanksy/models"
	"wanksy/service"
)

func buildLeaderboardEmbed(teamChoice string, result service.PageResult, page int, self *models.RankedEntry, teamTotal *int64) *discordgo.MessageEmbed {
	title := "🏆 Moola Leaderboard"
	if teamChoice != common.TeamAllLabel {
		title = fmt.Sprintf("🏆 Moola Leaderboard — %s", capitalize(teamChoice))
	}

	var lines []string
	for _, entry := range result.Entries {
		lines = append(lines, fmt.Sprintf("`#%d` <@%d> — **%s** moola",
			entry.Rank, entry.DiscordID, common.FormatMoola(entry.Points)))
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: strings.Join(lines, "\n"),
		Color:       common.ColorPrimary,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d of %d", page, result.TotalPages),
		},
	}

	selfText := "You are not on this leaderboard"
	if self != nil {
		selfText = fmt.Sprintf("You are **%s** with **%s** moola",
			common.FormatRank(self.Rank), common.FormatMoola(self.Points))
	}
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Your rank", Value: selfText},
	}
	if teamTotal != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Team total",
			Value:  fmt.Sprintf("**%s** moola", common.FormatMoola(*teamTotal)),
			Inline: true,
		})
	}

	return embed
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
