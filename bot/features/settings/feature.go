package settings

import (
	"github.com/bwmarrin/discordgo"

	"wanksy/service"
)

// Feature handles the admin settings command
type Feature struct {
	session  *discordgo.Session
	settings service.SettingsService
}

// NewFeature creates a new settings feature instance
func NewFeature(session *discordgo.Session, settings service.SettingsService) *Feature {
	return &Feature{
		session:  session,
		settings: settings,
	}
}

// HandleCommand handles the /settings slash command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleSettings(s, i)
}
