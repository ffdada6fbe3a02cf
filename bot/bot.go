package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"wanksy/bot/common"
	"wanksy/bot/features/leaderboard"
	"wanksy/bot/features/moola"
	"wanksy/bot/features/roles"
	"wanksy/bot/features/settings"
	"wanksy/bot/features/snapshot"
	"wanksy/bot/features/wallet"
	"wanksy/config"
	"wanksy/events"
	"wanksy/service"
)

// Bot manages the Discord session and all feature modules
type Bot struct {
	cfg      *config.Config
	session  *discordgo.Session
	gateway  service.MembershipGateway
	bus      *events.Bus
	settings service.SettingsService

	// Feature modules
	leaderboard *leaderboard.Feature
	roles       *roles.Feature
	moola       *moola.Feature
	snapshot    *snapshot.Feature
	wallet      *wallet.Feature
	settingsCmd *settings.Feature

	registry map[string]registeredCommand
}

// New creates a new bot instance with all features wired up
func New(cfg *config.Config, uowFactory service.UnitOfWorkFactory, bus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	dg.State.TrackMembers = true

	gateway := newDiscordGateway(dg, cfg.DiscordGuildID)

	roleCfg := service.RoleConfig{
		WhitelistRoleID:       cfg.WhitelistRoleID,
		WhitelistWinnerRoleID: cfg.WhitelistWinnerRoleID,
		MoolalistRoleID:       cfg.MoolalistRoleID,
		MoolalistWinnerRoleID: cfg.MoolalistWinnerRoleID,
		FreeMintRoleID:        cfg.FreeMintRoleID,
		FreeMintWinnerRoleID:  cfg.FreeMintWinnerRoleID,
		WankedRoleID:          cfg.WankedRoleID,
	}

	reconciler := service.NewReconcileService(uowFactory, gateway, roleCfg, service.DefaultGrantDelay)
	bulk := service.NewBulkAssignService(uowFactory, gateway, service.DefaultGrantDelay)
	purge := service.NewPurgeService(uowFactory, gateway, roleCfg, service.DefaultGrantDelay)
	ranking := service.NewRankingService(uowFactory)
	snapshotSvc := service.NewSnapshotService(uowFactory, gateway, roleCfg)
	moolaSvc := service.NewMoolaService(uowFactory)
	linking := service.NewLinkingService(uowFactory)
	settingsSvc := service.NewSettingsService(uowFactory)

	if err := settingsSvc.Load(context.Background(), cfg.DefaultWLMinimum); err != nil {
		return nil, fmt.Errorf("error loading settings: %w", err)
	}

	bot := &Bot{
		cfg:      cfg,
		session:  dg,
		gateway:  gateway,
		bus:      bus,
		settings: settingsSvc,
	}

	// Create feature modules
	bot.leaderboard = leaderboard.NewFeature(dg, ranking, cfg.LeaderboardPageSize, cfg.ExcludedDiscordIDs)
	bot.roles = roles.NewFeature(dg, reconciler, bulk, purge, settingsSvc, gateway, bus, roleCfg)
	bot.moola = moola.NewFeature(dg, moolaSvc)
	bot.snapshot = snapshot.NewFeature(dg, snapshotSvc)
	bot.wallet = wallet.NewFeature(dg, linking, bus, cfg.WalletLinkBaseURL)
	bot.settingsCmd = settings.NewFeature(dg, settingsSvc)

	bot.registry = bot.buildCommandRegistry()

	// Register handlers
	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleInteractions)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	if err := bot.StartHealthAPI(cfg.HealthPort); err != nil {
		log.Warnf("Failed to start health API on port %d: %v", cfg.HealthPort, err)
	}

	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	b.wallet.Close()
	return b.session.Close()
}

// GetSession returns the Discord session
func (b *Bot) GetSession() *discordgo.Session {
	return b.session
}

// handleCommands dispatches slash commands through the registry
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	cmd, ok := b.registry[name]
	if !ok {
		log.Warnf("Received unknown command %q", name)
		return
	}

	if cmd.adminOnly && !b.isAdmin(i.Member) {
		common.RespondWithError(s, i, "You need the admin role to use this command")
		return
	}

	cmd.handle(s, i)
}

// handleInteractions routes component interactions by custom ID prefix
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, "lb_"):
		b.leaderboard.HandleInteraction(s, i)

	case strings.HasPrefix(customID, "roles_"):
		// Confirm/cancel applies role mutations, re-check the invoker
		if !b.isAdmin(i.Member) {
			common.RespondWithError(s, i, "You need the admin role to use this")
			return
		}
		b.roles.HandleInteraction(s, i)
	}
}

// isAdmin checks the configured admin role, falling back to the Administrator
// permission when no role is configured
func (b *Bot) isAdmin(member *discordgo.Member) bool {
	if member == nil {
		return false
	}
	if b.cfg.AdminRoleID != "" {
		return common.MemberHasRole(member, b.cfg.AdminRoleID)
	}
	return member.Permissions&discordgo.PermissionAdministrator != 0
}
