package roles

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"wanksy/bot/common"
	"wanksy/events"
	"wanksy/service"
)

// Feature bundles the role management commands: threshold reconciliation,
// the bulk flag-role rollout, and the zero-balance purge.
type Feature struct {
	session    *discordgo.Session
	reconciler service.ReconcileService
	bulk       service.BulkAssignService
	purge      service.PurgeService
	settings   service.SettingsService
	gateway    service.MembershipGateway
	bus        *events.Bus
	roles      service.RoleConfig
}

// NewFeature creates a new roles feature instance
func NewFeature(
	session *discordgo.Session,
	reconciler service.ReconcileService,
	bulk service.BulkAssignService,
	purge service.PurgeService,
	settings service.SettingsService,
	gateway service.MembershipGateway,
	bus *events.Bus,
	roles service.RoleConfig,
) *Feature {
	return &Feature{
		session:    session,
		reconciler: reconciler,
		bulk:       bulk,
		purge:      purge,
		settings:   settings,
		gateway:    gateway,
		bus:        bus,
		roles:      roles,
	}
}

// HandleCommand routes the feature's slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "updateroles":
		f.handleUpdateRoles(s, i)
	case "alreadywanked":
		f.handleAlreadyWanked(s, i)
	case "purgezerobalance":
		f.handlePurgeZeroBalance(s, i)
	}
}

// HandleInteraction handles the confirm/cancel buttons of the updateroles flow
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		log.Warnf("Unknown interaction type in roles: %v", i.Type)
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, "roles_confirm_"):
		f.handleConfirm(s, i, strings.TrimPrefix(customID, "roles_confirm_"))
	case strings.HasPrefix(customID, "roles_cancel_"):
		f.handleCancel(s, i, strings.TrimPrefix(customID, "roles_cancel_"))
	default:
		common.RespondWithError(s, i, "Unknown roles interaction")
	}
}
