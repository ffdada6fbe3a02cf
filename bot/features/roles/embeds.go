package roles

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"wanksy/bot/common"
	"wanksy/models"
	"wanksy/service"
)

func buildDryRunEmbed(team models.Team, thresholds service.RoleThresholds, memberCount int, preview *models.RoleUpdateLog) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Role update preview — %s", team),
		Description: fmt.Sprintf(
			"**%d** linked members evaluated. Nothing has been changed yet.\nConfirm to apply exactly these grants.",
			memberCount),
		Color:  common.ColorWarning,
		Fields: categoryFields(thresholds, preview),
	}
}

func buildResultEmbed(team models.Team, thresholds service.RoleThresholds, result *models.RoleUpdateLog) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Role update applied — %s", team),
		Description: "Roles granted. Existing holders were left untouched.",
		Color:       common.ColorSuccess,
		Fields:      categoryFields(thresholds, result),
	}
}

func buildFailureEmbed(team models.Team) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Role update failed — %s", team),
		Description: "The run stopped partway; grants already made were kept. Check the logs and run /updateroles again.",
		Color:       common.ColorDanger,
	}
}

func categoryFields(thresholds service.RoleThresholds, log *models.RoleUpdateLog) []*discordgo.MessageEmbedField {
	format := func(threshold int64, counts models.RoleCounts) string {
		return fmt.Sprintf("threshold **%s** · add **%d** · existing **%d**",
			common.FormatMoola(threshold), counts.Added, counts.Existing)
	}

	return []*discordgo.MessageEmbedField{
		{Name: "Whitelist", Value: format(thresholds.Whitelist, log.Whitelist)},
		{Name: "Moolalist", Value: format(thresholds.Moolalist, log.Moolalist)},
		{Name: "Free Mint", Value: format(thresholds.FreeMint, log.FreeMint)},
	}
}

func buildConfirmButtons(sessionID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Confirm",
					Style:    discordgo.SuccessButton,
					CustomID: "roles_confirm_" + sessionID,
				},
				discordgo.Button{
					Label:    "Cancel",
					Style:    discordgo.DangerButton,
					CustomID: "roles_cancel_" + sessionID,
				},
			},
		},
	}
}
