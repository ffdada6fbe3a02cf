package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wanksy/events"
	"wanksy/models"
)

type moolaFixture struct {
	service  MoolaService
	userRepo *MockUserRepository
	uow      *MockUnitOfWork
}

func newMoolaFixture(ctx context.Context) *moolaFixture {
	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockUserRepo := new(MockUserRepository)
	mockUoW.SetRepositories(mockUserRepo, nil, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return &moolaFixture{
		service:  NewMoolaService(mockFactory),
		userRepo: mockUserRepo,
		uow:      mockUoW,
	}
}

func TestMoolaService_Transfer(t *testing.T) {
	ctx := context.Background()
	f := newMoolaFixture(ctx)

	f.userRepo.On("GetByDiscordID", ctx, int64(1)).Return(&models.User{DiscordID: 1, Points: 100}, nil)
	f.userRepo.On("GetByDiscordID", ctx, int64(2)).Return(&models.User{DiscordID: 2, Points: 10}, nil)
	f.userRepo.On("SetPoints", ctx, int64(1), int64(60)).Return(nil)
	f.userRepo.On("SetPoints", ctx, int64(2), int64(50)).Return(nil)

	result, err := f.service.Transfer(ctx, 1, 2, 40)
	require.NoError(t, err)

	assert.Equal(t, int64(40), result.Amount)
	assert.Equal(t, int64(60), result.SenderPoints)
	f.userRepo.AssertExpectations(t)
	f.uow.AssertCalled(t, "Commit")

	published := f.uow.PublishedEvents()
	require.Len(t, published, 2)

	out := published[0].(events.PointsAdjustedEvent)
	assert.Equal(t, int64(1), out.DiscordID)
	assert.Equal(t, int64(-40), out.ChangeAmount)
	assert.Equal(t, events.AdjustmentTransferOut, out.Kind)

	in := published[1].(events.PointsAdjustedEvent)
	assert.Equal(t, int64(2), in.DiscordID)
	assert.Equal(t, int64(40), in.ChangeAmount)
	assert.Equal(t, events.AdjustmentTransferIn, in.Kind)
}

func TestMoolaService_Transfer_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	f := newMoolaFixture(ctx)

	f.userRepo.On("GetByDiscordID", ctx, int64(1)).Return(&models.User{DiscordID: 1, Points: 30}, nil)

	_, err := f.service.Transfer(ctx, 1, 2, 40)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	f.userRepo.AssertNotCalled(t, "SetPoints", ctx, mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit")
}

func TestMoolaService_Transfer_RejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	f := newMoolaFixture(ctx)

	_, err := f.service.Transfer(ctx, 1, 2, 0)
	assert.ErrorIs(t, err, ErrAmountNotPositive)

	_, err = f.service.Transfer(ctx, 1, 2, -5)
	assert.ErrorIs(t, err, ErrAmountNotPositive)

	_, err = f.service.Transfer(ctx, 1, 1, 10)
	assert.ErrorIs(t, err, ErrSelfTransfer)

	f.uow.AssertNotCalled(t, "Begin", ctx)
}

func TestMoolaService_Transfer_RecipientMissing(t *testing.T) {
	ctx := context.Background()
	f := newMoolaFixture(ctx)

	f.userRepo.On("GetByDiscordID", ctx, int64(1)).Return(&models.User{DiscordID: 1, Points: 100}, nil)
	f.userRepo.On("GetByDiscordID", ctx, int64(2)).Return(nil, nil)

	_, err := f.service.Transfer(ctx, 1, 2, 40)
	require.ErrorIs(t, err, ErrUserNotFound)
	assert.Contains(t, err.Error(), "recipient")

	f.userRepo.AssertNotCalled(t, "SetPoints", ctx, mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit")
}

func TestMoolaService_Transfer_DeductFailureLeavesNoCommit(t *testing.T) {
	ctx := context.Background()
	f := newMoolaFixture(ctx)

	f.userRepo.On("GetByDiscordID", ctx, int64(1)).Return(&models.User{DiscordID: 1, Points: 100}, nil)
	f.userRepo.On("GetByDiscordID", ctx, int64(2)).Return(&models.User{DiscordID: 2, Points: 10}, nil)
	f.userRepo.On("SetPoints", ctx, int64(1), int64(60)).Return(assert.AnError)

	_, err := f.service.Transfer(ctx, 1, 2, 40)
	require.Error(t, err)

	f.uow.AssertNotCalled(t, "Commit")
	f.uow.AssertCalled(t, "Rollback")
}

func TestMoolaService_Fine(t *testing.T) {
	ctx := context.Background()
	f := newMoolaFixture(ctx)

	f.userRepo.On("GetByDiscordID", ctx, int64(7)).Return(&models.User{DiscordID: 7, Points: 80}, nil)
	f.userRepo.On("SetPoints", ctx, int64(7), int64(30)).Return(nil)

	newBalance, err := f.service.Fine(ctx, 7, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(30), newBalance)

	published := f.uow.PublishedEvents()
	require.Len(t, published, 1)
	e := published[0].(events.PointsAdjustedEvent)
	assert.Equal(t, events.AdjustmentFine, e.Kind)
	assert.Equal(t, int64(-50), e.ChangeAmount)
}

func TestMoolaService_Fine_ExceedsBalance(t *testing.T) {
	ctx := context.Background()
	f := newMoolaFixture(ctx)

	// 30 points, fined 50: rejected whole, never clamped to zero
	f.userRepo.On("GetByDiscordID", ctx, int64(7)).Return(&models.User{DiscordID: 7, Points: 30}, nil)

	_, err := f.service.Fine(ctx, 7, 50)
	require.ErrorIs(t, err, ErrFineExceedsBalance)

	f.userRepo.AssertNotCalled(t, "SetPoints", ctx, mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit")
	assert.Empty(t, f.uow.PublishedEvents())
}

func TestMoolaService_Fine_ExactBalanceAllowed(t *testing.T) {
	ctx := context.Background()
	f := newMoolaFixture(ctx)

	f.userRepo.On("GetByDiscordID", ctx, int64(7)).Return(&models.User{DiscordID: 7, Points: 50}, nil)
	f.userRepo.On("SetPoints", ctx, int64(7), int64(0)).Return(nil)

	newBalance, err := f.service.Fine(ctx, 7, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(0), newBalance)
}

func TestMoolaService_Fine_UserMissing(t *testing.T) {
	ctx := context.Background()
	f := newMoolaFixture(ctx)

	f.userRepo.On("GetByDiscordID", ctx, int64(9)).Return(nil, nil)

	_, err := f.service.Fine(ctx, 9, 10)
	require.ErrorIs(t, err, ErrUserNotFound)
}
