package leaderboard

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// buildNavButtons creates prev/next navigation, disabled at the bounds so an
// out-of-range page can never be requested through the UI
func buildNavButtons(teamChoice string, page, totalPages int) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "◀ Prev",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("lb_page_%s_%d", teamChoice, page-1),
					Disabled: page <= 1,
				},
				discordgo.Button{
					Label:    "Next ▶",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("lb_page_%s_%d", teamChoice, page+1),
					Disabled: page >= totalPages,
				},
			},
		},
	}
}
