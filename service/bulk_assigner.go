package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"wanksy/models"
)

// bulkAssignPageSize bounds how many users are held in memory at once;
// linked populations run into the thousands.
const bulkAssignPageSize = 100

type bulkAssignService struct {
	uowFactory UnitOfWorkFactory
	gateway    MembershipGateway
	pageSize   int
	grantDelay time.Duration
}

// NewBulkAssignService creates a new bulk flag-role rollout service
func NewBulkAssignService(uowFactory UnitOfWorkFactory, gateway MembershipGateway, grantDelay time.Duration) BulkAssignService {
	return &bulkAssignService{
		uowFactory: uowFactory,
		gateway:    gateway,
		pageSize:   bulkAssignPageSize,
		grantDelay: grantDelay,
	}
}

// AssignFlagRole walks the linked population page by page and grants roleID to
// everyone missing it. Per-member failures land in the error counter; the walk
// never aborts early. The progress callback fires after every page.
func (s *bulkAssignService) AssignFlagRole(ctx context.Context, roleID string, progress func(BulkAssignProgress)) (*models.BulkAssignResult, error) {
	if roleID == "" {
		return nil, fmt.Errorf("flag role ID is not configured")
	}

	result := &models.BulkAssignResult{}
	offset := 0

	for {
		users, err := s.loadPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		if len(users) == 0 {
			break
		}

		for _, user := range users {
			result.Processed++

			member, err := s.gateway.ResolveMember(ctx, user.DiscordID)
			if err != nil || member == nil {
				result.Errors++
				log.WithField("discord_id", user.DiscordID).Debug("Could not resolve member during bulk assignment")
				continue
			}

			if member.HasRole(roleID) {
				result.Existing++
				continue
			}

			if err := s.gateway.AddRole(ctx, user.DiscordID, roleID); err != nil {
				result.Errors++
				log.WithError(err).WithField("discord_id", user.DiscordID).Error("Failed to grant flag role, continuing")
			} else {
				result.Added++
			}
			if s.grantDelay > 0 {
				time.Sleep(s.grantDelay)
			}
		}

		if progress != nil {
			progress(BulkAssignProgress{
				Processed: result.Processed,
				Added:     result.Added,
				Existing:  result.Existing,
				Errors:    result.Errors,
			})
		}

		if len(users) < s.pageSize {
			break
		}
		offset += len(users)
	}

	return result, nil
}

// LinkedCount reports how many linked users a rollout would walk, so the
// invoking admin sees the population size before the first page completes.
func (s *bulkAssignService) LinkedCount(ctx context.Context) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	count, err := uow.UserRepository().CountLinked(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count linked users: %w", err)
	}

	return count, nil
}

// loadPage reads one page of linked users inside its own short transaction
func (s *bulkAssignService) loadPage(ctx context.Context, offset int) ([]*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetLinkedPage(ctx, offset, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load population page at offset %d: %w", offset, err)
	}

	return users, nil
}
