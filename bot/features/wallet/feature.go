package wallet

import (
	"sync"

	"github.com/bwmarrin/discordgo"

	"wanksy/events"
	"wanksy/service"
)

// Feature handles wallet linking: issuing a token, handing the user the link,
// and watching for the external web flow to write the address back.
type Feature struct {
	session     *discordgo.Session
	linking     service.LinkingService
	bus         *events.Bus
	linkBaseURL string

	mu       sync.Mutex
	watchers map[int64]func() // active watch stop funcs by user
}

// NewFeature creates a new wallet feature instance
func NewFeature(session *discordgo.Session, linking service.LinkingService, bus *events.Bus, linkBaseURL string) *Feature {
	return &Feature{
		session:     session,
		linking:     linking,
		bus:         bus,
		linkBaseURL: linkBaseURL,
		watchers:    make(map[int64]func()),
	}
}

// HandleCommand handles the /updatewallet slash command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleUpdateWallet(s, i)
}

// Close stops any still-running link watchers
func (f *Feature) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, stop := range f.watchers {
		stop()
		delete(f.watchers, id)
	}
}

// trackWatcher replaces any previous watcher for the user, stopping it first
// so at most one poller per user exists.
func (f *Feature) trackWatcher(discordID int64, stop func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if prev, ok := f.watchers[discordID]; ok {
		prev()
	}
	f.watchers[discordID] = stop
}

func (f *Feature) clearWatcher(discordID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.watchers, discordID)
}
