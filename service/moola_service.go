package service

import (
	"context"
	"fmt"

	"wanksy/events"
)

type moolaService struct {
	uowFactory UnitOfWorkFactory
}

// NewMoolaService creates a new moola balance service
func NewMoolaService(uowFactory UnitOfWorkFactory) MoolaService {
	return &moolaService{
		uowFactory: uowFactory,
	}
}

// Transfer moves amount from one user to another. Both row updates happen
// inside a single transaction, so a failure on either side leaves both
// balances untouched.
func (s *moolaService) Transfer(ctx context.Context, fromDiscordID, toDiscordID, amount int64) (*TransferResult, error) {
	if amount <= 0 {
		return nil, ErrAmountNotPositive
	}
	if fromDiscordID == toDiscordID {
		return nil, ErrSelfTransfer
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	fromUser, err := uow.UserRepository().GetByDiscordID(ctx, fromDiscordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sender: %w", err)
	}
	if fromUser == nil {
		return nil, fmt.Errorf("sender: %w", ErrUserNotFound)
	}

	if fromUser.Points < amount {
		return nil, fmt.Errorf("%w: you have %d, tried to send %d", ErrInsufficientBalance, fromUser.Points, amount)
	}

	toUser, err := uow.UserRepository().GetByDiscordID(ctx, toDiscordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}
	if toUser == nil {
		return nil, fmt.Errorf("recipient: %w", ErrUserNotFound)
	}

	newFromPoints := fromUser.Points - amount
	newToPoints := toUser.Points + amount

	if err := uow.UserRepository().SetPoints(ctx, fromDiscordID, newFromPoints); err != nil {
		return nil, fmt.Errorf("failed to deduct transfer amount: %w", err)
	}
	if err := uow.UserRepository().SetPoints(ctx, toDiscordID, newToPoints); err != nil {
		return nil, fmt.Errorf("failed to add transfer amount: %w", err)
	}

	uow.EventBus().Publish(events.PointsAdjustedEvent{
		DiscordID:    fromDiscordID,
		OldPoints:    fromUser.Points,
		NewPoints:    newFromPoints,
		ChangeAmount: -amount,
		Kind:         events.AdjustmentTransferOut,
	})
	uow.EventBus().Publish(events.PointsAdjustedEvent{
		DiscordID:    toDiscordID,
		OldPoints:    toUser.Points,
		NewPoints:    newToPoints,
		ChangeAmount: amount,
		Kind:         events.AdjustmentTransferIn,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &TransferResult{
		Amount:       amount,
		SenderPoints: newFromPoints,
	}, nil
}

// Fine deducts amount from a user's balance. A fine larger than the balance is
// rejected outright and performs no update.
func (s *moolaService) Fine(ctx context.Context, discordID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrAmountNotPositive
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return 0, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return 0, ErrUserNotFound
	}

	if amount > user.Points {
		return 0, fmt.Errorf("%w: balance %d, fine %d", ErrFineExceedsBalance, user.Points, amount)
	}

	newPoints := user.Points - amount
	if err := uow.UserRepository().SetPoints(ctx, discordID, newPoints); err != nil {
		return 0, fmt.Errorf("failed to apply fine: %w", err)
	}

	uow.EventBus().Publish(events.PointsAdjustedEvent{
		DiscordID:    discordID,
		OldPoints:    user.Points,
		NewPoints:    newPoints,
		ChangeAmount: -amount,
		Kind:         events.AdjustmentFine,
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newPoints, nil
}
