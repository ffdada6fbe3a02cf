package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// registeredCommand pairs a command definition with its handler and
// authorization requirement, so dispatch is a map lookup rather than a
// name switch.
type registeredCommand struct {
	definition *discordgo.ApplicationCommand
	adminOnly  bool
	handle     func(s *discordgo.Session, i *discordgo.InteractionCreate)
}

func minValue(v float64) *float64 { return &v }

func (b *Bot) buildCommandRegistry() map[string]registeredCommand {
	teamChoices := []*discordgo.ApplicationCommandOptionChoice{
		{Name: "Bullas", Value: "bullas"},
		{Name: "Beras", Value: "beras"},
	}
	teamChoicesWithAll := append([]*discordgo.ApplicationCommandOptionChoice{
		{Name: "All teams", Value: "all"},
	}, teamChoices...)

	return map[string]registeredCommand{
		"updateroles": {
			adminOnly: true,
			handle:    b.roles.HandleCommand,
			definition: &discordgo.ApplicationCommand{
				Name:        "updateroles",
				Description: "Grant threshold roles to a team (dry-run first)",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "team",
						Description: "Team to update",
						Required:    true,
						Choices:     teamChoices,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "moolalist",
						Description: "Moolalist point threshold",
						Required:    true,
						MinValue:    minValue(0),
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "freemint",
						Description: "Free mint point threshold",
						Required:    true,
						MinValue:    minValue(0),
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "whitelist",
						Description: "Whitelist point threshold (defaults to the configured minimum)",
						Required:    false,
						MinValue:    minValue(0),
					},
				},
			},
		},
		"alreadywanked": {
			adminOnly: true,
			handle:    b.roles.HandleCommand,
			definition: &discordgo.ApplicationCommand{
				Name:        "alreadywanked",
				Description: "Give the wanked role to every linked user missing it",
			},
		},
		"purgezerobalance": {
			adminOnly: true,
			handle:    b.roles.HandleCommand,
			definition: &discordgo.ApplicationCommand{
				Name:        "purgezerobalance",
				Description: "Strip managed roles from users with exactly zero moola",
			},
		},
		"transfer": {
			handle: b.moola.HandleCommand,
			definition: &discordgo.ApplicationCommand{
				Name:        "transfer",
				Description: "Send some of your moola to another user",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "user",
						Description: "User to send moola to",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "amount",
						Description: "Amount of moola to send",
						Required:    true,
						MinValue:    minValue(1),
					},
				},
			},
		},
		"fine": {
			adminOnly: true,
			handle:    b.moola.HandleCommand,
			definition: &discordgo.ApplicationCommand{
				Name:        "fine",
				Description: "Deduct moola from a user",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "user",
						Description: "User to fine",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "amount",
						Description: "Amount of moola to deduct",
						Required:    true,
						MinValue:    minValue(1),
					},
				},
			},
		},
		"snapshot": {
			adminOnly: true,
			handle:    b.snapshot.HandleCommand,
			definition: &discordgo.ApplicationCommand{
				Name:        "snapshot",
				Description: "Export the ranked moola holders as CSV",
			},
		},
		"leaderboard": {
			handle: b.leaderboard.HandleCommand,
			definition: &discordgo.ApplicationCommand{
				Name:        "leaderboard",
				Description: "Show the moola leaderboard",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "team",
						Description: "Team to rank (defaults to all)",
						Required:    false,
						Choices:     teamChoicesWithAll,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "page",
						Description: "Page to show (defaults to 1)",
						Required:    false,
						MinValue:    minValue(1),
					},
				},
			},
		},
		"updatewallet": {
			handle: b.wallet.HandleCommand,
			definition: &discordgo.ApplicationCommand{
				Name:        "updatewallet",
				Description: "Link or update your wallet address",
			},
		},
		"settings": {
			adminOnly: true,
			handle:    b.settingsCmd.HandleCommand,
			definition: &discordgo.ApplicationCommand{
				Name:        "settings",
				Description: "Configure bot settings",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "wl-minimum",
						Description: "Set the default whitelist point minimum",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Type:        discordgo.ApplicationCommandOptionInteger,
								Name:        "value",
								Description: "New whitelist minimum",
								Required:    true,
								MinValue:    minValue(0),
							},
						},
					},
				},
			},
		},
	}
}

// registerCommands overwrites the guild's slash command set with the registry's
// definitions
func (b *Bot) registerCommands() error {
	definitions := make([]*discordgo.ApplicationCommand, 0, len(b.registry))
	for _, cmd := range b.registry {
		definitions = append(definitions, cmd.definition)
	}

	registered, err := b.session.ApplicationCommandBulkOverwrite(
		b.session.State.User.ID, b.cfg.DiscordGuildID, definitions)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	log.Infof("Registered %d slash commands", len(registered))
	return nil
}
