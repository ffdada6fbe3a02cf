package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"wanksy/models"
)

// RoleConfig names the Discord roles the bot manages. Winner variants are
// granted by an external process but still satisfy the "already has it" check.
type RoleConfig struct {
	WhitelistRoleID       string
	WhitelistWinnerRoleID string
	MoolalistRoleID       string
	MoolalistWinnerRoleID string
	FreeMintRoleID        string
	FreeMintWinnerRoleID  string
	WankedRoleID          string
}

// DefaultGrantDelay is the pause between consecutive role mutations, keeping
// the bot under the gateway's rate limits. A fixed interval, not a backoff.
const DefaultGrantDelay = 200 * time.Millisecond

type reconcileService struct {
	uowFactory UnitOfWorkFactory
	gateway    MembershipGateway
	roles      RoleConfig
	grantDelay time.Duration
}

// NewReconcileService creates a new threshold reconciliation service
func NewReconcileService(uowFactory UnitOfWorkFactory, gateway MembershipGateway, roles RoleConfig, grantDelay time.Duration) ReconcileService {
	return &reconcileService{
		uowFactory: uowFactory,
		gateway:    gateway,
		roles:      roles,
		grantDelay: grantDelay,
	}
}

// TeamMembers loads the linked members of a team as reconciliation input
func (s *reconcileService) TeamMembers(ctx context.Context, team models.Team) ([]MemberPoints, error) {
	if !team.IsValid() {
		return nil, fmt.Errorf("unknown team %q", team)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetRanked(ctx, &team, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load team members: %w", err)
	}

	members := make([]MemberPoints, 0, len(users))
	for _, u := range users {
		members = append(members, MemberPoints{DiscordID: u.DiscordID, Points: u.Points})
	}

	return members, nil
}

// category is one threshold bucket of a reconciliation run
type category struct {
	name      string
	threshold int64
	baseRole  string
	winner    string
	counts    *models.RoleCounts
}

// Reconcile classifies every member against the three thresholds and, unless
// the run is a dry run, grants missing base roles. A dry run walks the exact
// same classification so its counters match a live run on the same snapshot.
func (s *reconcileService) Reconcile(ctx context.Context, in ReconcileInput) (*models.RoleUpdateLog, error) {
	result := &models.RoleUpdateLog{}

	categories := []category{
		{"whitelist", in.Thresholds.Whitelist, s.roles.WhitelistRoleID, s.roles.WhitelistWinnerRoleID, &result.Whitelist},
		{"moolalist", in.Thresholds.Moolalist, s.roles.MoolalistRoleID, s.roles.MoolalistWinnerRoleID, &result.Moolalist},
		{"freemint", in.Thresholds.FreeMint, s.roles.FreeMintRoleID, s.roles.FreeMintWinnerRoleID, &result.FreeMint},
	}

	for _, mp := range in.Members {
		member, err := s.gateway.ResolveMember(ctx, mp.DiscordID)
		if err != nil {
			log.WithError(err).WithField("discord_id", mp.DiscordID).
				Warn("Failed to resolve member during reconciliation, continuing")
			continue
		}
		if member == nil {
			// Left the server; not an error and not counted either way
			log.WithField("discord_id", mp.DiscordID).Debug("Skipping member without a guild record")
			continue
		}

		for i := range categories {
			cat := &categories[i]
			if mp.Points < cat.threshold {
				continue
			}

			if member.HasAnyRole(cat.baseRole, cat.winner) {
				cat.counts.Existing++
				continue
			}

			cat.counts.Added++
			if in.DryRun {
				continue
			}

			if err := s.gateway.AddRole(ctx, mp.DiscordID, cat.baseRole); err != nil {
				log.WithError(err).WithFields(log.Fields{
					"discord_id": mp.DiscordID,
					"category":   cat.name,
					"role_id":    cat.baseRole,
				}).Error("Failed to grant threshold role, continuing")
			}
			if s.grantDelay > 0 {
				time.Sleep(s.grantDelay)
			}
		}
	}

	return result, nil
}
