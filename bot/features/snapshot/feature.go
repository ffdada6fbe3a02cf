package snapshot

import (
	"github.com/bwmarrin/discordgo"

	"wanksy/service"
)

// Feature exports the ranked linked population as a CSV attachment
type Feature struct {
	session  *discordgo.Session
	snapshot service.SnapshotService
}

// NewFeature creates a new snapshot feature instance
func NewFeature(session *discordgo.Session, snapshot service.SnapshotService) *Feature {
	return &Feature{
		session:  session,
		snapshot: snapshot,
	}
}

// HandleCommand handles the /snapshot slash command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleSnapshot(s, i)
}
