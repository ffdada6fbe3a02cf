package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"wanksy/models"
)

const (
	// linkPollInterval is how often the watcher re-reads the user row
	linkPollInterval = 5 * time.Second
	// linkWatchLifetime bounds how long a watcher may live before giving up
	linkWatchLifetime = 2 * time.Minute
)

type linkingService struct {
	uowFactory   UnitOfWorkFactory
	pollInterval time.Duration
	lifetime     time.Duration
}

// NewLinkingService creates a new wallet linking service
func NewLinkingService(uowFactory UnitOfWorkFactory) LinkingService {
	return &linkingService{
		uowFactory:   uowFactory,
		pollInterval: linkPollInterval,
		lifetime:     linkWatchLifetime,
	}
}

// IssueToken creates a fresh link token for the user, invalidating any
// previously issued unused tokens first so only the newest link works.
func (s *linkingService) IssueToken(ctx context.Context, discordID int64) (*models.LinkToken, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.LinkTokenRepository().InvalidateUnused(ctx, discordID); err != nil {
		return nil, fmt.Errorf("failed to invalidate previous tokens: %w", err)
	}

	token := &models.LinkToken{
		Token:     uuid.New(),
		DiscordID: discordID,
	}
	if err := uow.LinkTokenRepository().Create(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to create link token: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return token, nil
}

// WatchLink polls the user row until a wallet address appears. The watcher has
// a hard lifetime and an explicit stop function, so no timer outlives its use.
// The external web flow writes the address; the bot only observes it.
func (s *linkingService) WatchLink(ctx context.Context, discordID int64, onLinked func(address string), onTimeout func()) func() {
	stopCh := make(chan struct{})
	var stopOnce sync.Once
	stop := func() {
		stopOnce.Do(func() { close(stopCh) })
	}

	go func() {
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		deadline := time.NewTimer(s.lifetime)
		defer deadline.Stop()

		for {
			select {
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			case <-deadline.C:
				if onTimeout != nil {
					onTimeout()
				}
				return
			case <-ticker.C:
				address, err := s.checkLinked(ctx, discordID)
				if err != nil {
					log.WithError(err).WithField("discord_id", discordID).
						Warn("Link watch poll failed, will retry")
					continue
				}
				if address != "" {
					if onLinked != nil {
						onLinked(address)
					}
					return
				}
			}
		}
	}()

	return stop
}

// checkLinked reads the user's current address, empty when not yet linked
func (s *linkingService) checkLinked(ctx context.Context, discordID int64) (string, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return "", err
	}
	if user == nil || !user.Linked() {
		return "", nil
	}

	return *user.Address, nil
}
