package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type snapshotService struct {
	uowFactory UnitOfWorkFactory
	gateway    MembershipGateway
	roles      RoleConfig
}

// NewSnapshotService creates a new snapshot export service
func NewSnapshotService(uowFactory UnitOfWorkFactory, gateway MembershipGateway, roles RoleConfig) SnapshotService {
	return &snapshotService{
		uowFactory: uowFactory,
		gateway:    gateway,
		roles:      roles,
	}
}

// GenerateCSV exports every linked user, points descending, with their three
// threshold role flags resolved through the gateway. Users who left the server
// keep their row with all flags false.
func (s *snapshotService) GenerateCSV(ctx context.Context, includeID bool) (string, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}

	users, err := uow.UserRepository().GetRanked(ctx, nil, nil)
	uow.Rollback()
	if err != nil {
		return "", fmt.Errorf("failed to load snapshot population: %w", err)
	}

	rows := make([]SnapshotRow, 0, len(users))
	for _, user := range users {
		row := SnapshotRow{
			DiscordID: user.DiscordID,
			Points:    user.Points,
		}
		if user.Address != nil {
			row.Address = *user.Address
		}

		member, err := s.gateway.ResolveMember(ctx, user.DiscordID)
		if err != nil {
			log.WithError(err).WithField("discord_id", user.DiscordID).
				Warn("Failed to resolve member for snapshot, flags left unset")
		} else if member != nil {
			row.Whitelist = member.HasAnyRole(s.roles.WhitelistRoleID, s.roles.WhitelistWinnerRoleID)
			row.Moolalist = member.HasAnyRole(s.roles.MoolalistRoleID, s.roles.MoolalistWinnerRoleID)
			row.FreeMint = member.HasAnyRole(s.roles.FreeMintRoleID, s.roles.FreeMintWinnerRoleID)
		}

		rows = append(rows, row)
	}

	return FormatSnapshotCSV(rows, includeID), nil
}
