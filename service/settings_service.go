package service

import (
	"context"
	"fmt"
	"sync"
)

// settingsService holds the process-wide whitelist minimum. The value lives in
// the guild_settings row; the in-memory copy exists so reads never hit the
// store, and is only mutated through SetWLMinimum.
type settingsService struct {
	uowFactory UnitOfWorkFactory

	mu        sync.RWMutex
	wlMinimum int64
}

// NewSettingsService creates a new settings service
func NewSettingsService(uowFactory UnitOfWorkFactory) SettingsService {
	return &settingsService{
		uowFactory: uowFactory,
	}
}

// Load initializes the in-memory value from the store. When no row exists yet
// the configured fallback is persisted so later restarts see the same value.
func (s *settingsService) Load(ctx context.Context, fallback int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	stored, err := uow.SettingsRepository().GetWLMinimum(ctx)
	if err != nil {
		return fmt.Errorf("failed to load whitelist minimum: %w", err)
	}

	minimum := fallback
	if stored != nil {
		minimum = *stored
	} else {
		if err := uow.SettingsRepository().SetWLMinimum(ctx, fallback); err != nil {
			return fmt.Errorf("failed to persist default whitelist minimum: %w", err)
		}
		if err := uow.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
	}

	s.mu.Lock()
	s.wlMinimum = minimum
	s.mu.Unlock()

	return nil
}

// WLMinimum returns the current whitelist minimum
func (s *settingsService) WLMinimum() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wlMinimum
}

// SetWLMinimum persists a new whitelist minimum and updates the in-memory copy
func (s *settingsService) SetWLMinimum(ctx context.Context, minimum int64) error {
	if minimum < 0 {
		return fmt.Errorf("whitelist minimum must not be negative")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.SettingsRepository().SetWLMinimum(ctx, minimum); err != nil {
		return fmt.Errorf("failed to persist whitelist minimum: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.mu.Lock()
	s.wlMinimum = minimum
	s.mu.Unlock()

	return nil
}
