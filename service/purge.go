package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"wanksy/models"
)

type purgeService struct {
	uowFactory UnitOfWorkFactory
	gateway    MembershipGateway
	roles      RoleConfig
	grantDelay time.Duration
}

// NewPurgeService creates a new zero-balance purge service
func NewPurgeService(uowFactory UnitOfWorkFactory, gateway MembershipGateway, roles RoleConfig, grantDelay time.Duration) PurgeService {
	return &purgeService{
		uowFactory: uowFactory,
		gateway:    gateway,
		roles:      roles,
		grantDelay: grantDelay,
	}
}

// PurgeZeroBalance strips the managed roles from every linked user sitting at
// exactly zero points. This is the only path that ever removes a role.
func (s *purgeService) PurgeZeroBalance(ctx context.Context) (*models.PurgeResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	users, err := uow.UserRepository().GetZeroPointUsers(ctx)
	uow.Rollback()
	if err != nil {
		return nil, fmt.Errorf("failed to load zero point users: %w", err)
	}

	managed := []string{
		s.roles.WhitelistRoleID,
		s.roles.MoolalistRoleID,
		s.roles.FreeMintRoleID,
		s.roles.WankedRoleID,
	}

	result := &models.PurgeResult{}

	for _, user := range users {
		result.UsersChecked++

		member, err := s.gateway.ResolveMember(ctx, user.DiscordID)
		if err != nil {
			result.Errors++
			log.WithError(err).WithField("discord_id", user.DiscordID).
				Warn("Failed to resolve member during purge, continuing")
			continue
		}
		if member == nil {
			continue
		}

		for _, roleID := range managed {
			if roleID == "" || !member.HasRole(roleID) {
				continue
			}

			if err := s.gateway.RemoveRole(ctx, user.DiscordID, roleID); err != nil {
				result.Errors++
				log.WithError(err).WithFields(log.Fields{
					"discord_id": user.DiscordID,
					"role_id":    roleID,
				}).Error("Failed to remove role during purge, continuing")
				continue
			}
			result.RolesRemoved++

			if s.grantDelay > 0 {
				time.Sleep(s.grantDelay)
			}
		}
	}

	return result, nil
}
