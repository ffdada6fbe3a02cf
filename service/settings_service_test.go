package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settingsFixture struct {
	service      SettingsService
	settingsRepo *MockSettingsRepository
	uow          *MockUnitOfWork
}

func newSettingsFixture(ctx context.Context) *settingsFixture {
	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockSettingsRepo := new(MockSettingsRepository)
	mockUoW.SetRepositories(nil, nil, mockSettingsRepo)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return &settingsFixture{
		service:      NewSettingsService(mockFactory),
		settingsRepo: mockSettingsRepo,
		uow:          mockUoW,
	}
}

func TestSettingsService_Load_UsesStoredValue(t *testing.T) {
	ctx := context.Background()
	f := newSettingsFixture(ctx)

	stored := int64(250)
	f.settingsRepo.On("GetWLMinimum", ctx).Return(&stored, nil)

	require.NoError(t, f.service.Load(ctx, 100))
	assert.Equal(t, int64(250), f.service.WLMinimum())
	f.settingsRepo.AssertNotCalled(t, "SetWLMinimum", ctx, int64(100))
}

func TestSettingsService_Load_PersistsFallback(t *testing.T) {
	ctx := context.Background()
	f := newSettingsFixture(ctx)

	f.settingsRepo.On("GetWLMinimum", ctx).Return(nil, nil)
	f.settingsRepo.On("SetWLMinimum", ctx, int64(100)).Return(nil)

	require.NoError(t, f.service.Load(ctx, 100))
	assert.Equal(t, int64(100), f.service.WLMinimum())
	f.settingsRepo.AssertExpectations(t)
	f.uow.AssertCalled(t, "Commit")
}

func TestSettingsService_SetWLMinimum(t *testing.T) {
	ctx := context.Background()
	f := newSettingsFixture(ctx)

	f.settingsRepo.On("SetWLMinimum", ctx, int64(400)).Return(nil)

	require.NoError(t, f.service.SetWLMinimum(ctx, 400))
	assert.Equal(t, int64(400), f.service.WLMinimum())
}

func TestSettingsService_SetWLMinimum_RejectsNegative(t *testing.T) {
	ctx := context.Background()
	f := newSettingsFixture(ctx)

	err := f.service.SetWLMinimum(ctx, -1)
	require.Error(t, err)
	f.settingsRepo.AssertNotCalled(t, "SetWLMinimum", ctx, int64(-1))
}

func TestSettingsService_SetWLMinimum_PersistFailureKeepsOldValue(t *testing.T) {
	ctx := context.Background()
	f := newSettingsFixture(ctx)

	stored := int64(100)
	f.settingsRepo.On("GetWLMinimum", ctx).Return(&stored, nil)
	require.NoError(t, f.service.Load(ctx, 100))

	f.settingsRepo.On("SetWLMinimum", ctx, int64(500)).Return(assert.AnError)

	err := f.service.SetWLMinimum(ctx, 500)
	require.Error(t, err)
	assert.Equal(t, int64(100), f.service.WLMinimum())
	f.uow.AssertNotCalled(t, "Commit")
}
