package moola

import (
	"github.com/bwmarrin/discordgo"

	"wanksy/service"
)

// Feature represents the moola balance commands (transfer and fine)
type Feature struct {
	session *discordgo.Session
	moola   service.MoolaService
}

// NewFeature creates a new moola feature instance
func NewFeature(session *discordgo.Session, moola service.MoolaService) *Feature {
	return &Feature{
		session: session,
		moola:   moola,
	}
}

// HandleCommand routes the feature's slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "transfer":
		f.handleTransfer(s, i)
	case "fine":
		f.handleFine(s, i)
	}
}
