package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wanksy/models"
)

var testRoles = RoleConfig{
	WhitelistRoleID:       "wl-role",
	WhitelistWinnerRoleID: "wl-winner-role",
	MoolalistRoleID:       "ml-role",
	MoolalistWinnerRoleID: "ml-winner-role",
	FreeMintRoleID:        "fm-role",
	FreeMintWinnerRoleID:  "fm-winner-role",
	WankedRoleID:          "wanked-role",
}

func newReconcileFixture() (*MockUnitOfWorkFactory, *MockMembershipGateway, ReconcileService) {
	mockFactory := new(MockUnitOfWorkFactory)
	mockGateway := new(MockMembershipGateway)
	svc := NewReconcileService(mockFactory, mockGateway, testRoles, 0)
	return mockFactory, mockGateway, svc
}

func TestReconcileService_Reconcile_GrantsWhitelistOnly(t *testing.T) {
	ctx := context.Background()
	_, mockGateway, svc := newReconcileFixture()

	// 150 clears the whitelist threshold only; 50 clears nothing
	input := ReconcileInput{
		Members: []MemberPoints{
			{DiscordID: 1, Points: 150},
			{DiscordID: 2, Points: 50},
		},
		Thresholds: RoleThresholds{Whitelist: 100, Moolalist: 200, FreeMint: 500},
	}

	mockGateway.On("ResolveMember", ctx, int64(1)).Return(&Member{DiscordID: 1}, nil)
	mockGateway.On("ResolveMember", ctx, int64(2)).Return(&Member{DiscordID: 2}, nil)
	mockGateway.On("AddRole", ctx, int64(1), "wl-role").Return(nil)

	result, err := svc.Reconcile(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Whitelist.Added)
	assert.Equal(t, 0, result.Whitelist.Existing)
	assert.Equal(t, 0, result.Moolalist.Added)
	assert.Equal(t, 0, result.FreeMint.Added)

	mockGateway.AssertExpectations(t)
	mockGateway.AssertNotCalled(t, "RemoveRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileService_Reconcile_WinnerVariantCountsAsExisting(t *testing.T) {
	ctx := context.Background()
	_, mockGateway, svc := newReconcileFixture()

	input := ReconcileInput{
		Members:    []MemberPoints{{DiscordID: 1, Points: 1000}},
		Thresholds: RoleThresholds{Whitelist: 100, Moolalist: 200, FreeMint: 500},
	}

	// Holds the whitelist winner variant and the moolalist base role
	mockGateway.On("ResolveMember", ctx, int64(1)).
		Return(&Member{DiscordID: 1, RoleIDs: []string{"wl-winner-role", "ml-role"}}, nil)
	mockGateway.On("AddRole", ctx, int64(1), "fm-role").Return(nil)

	result, err := svc.Reconcile(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, models.RoleCounts{Added: 0, Existing: 1}, result.Whitelist)
	assert.Equal(t, models.RoleCounts{Added: 0, Existing: 1}, result.Moolalist)
	assert.Equal(t, models.RoleCounts{Added: 1, Existing: 0}, result.FreeMint)

	mockGateway.AssertExpectations(t)
}

func TestReconcileService_Reconcile_DryRunEquivalence(t *testing.T) {
	ctx := context.Background()

	members := []MemberPoints{
		{DiscordID: 1, Points: 600},
		{DiscordID: 2, Points: 250},
		{DiscordID: 3, Points: 120},
		{DiscordID: 4, Points: 10},
	}
	thresholds := RoleThresholds{Whitelist: 100, Moolalist: 200, FreeMint: 500}
	currentRoles := map[int64][]string{
		1: {"wl-role"},
		2: {"ml-winner-role"},
		3: nil,
		4: nil,
	}

	run := func(dryRun bool) *models.RoleUpdateLog {
		_, mockGateway, svc := newReconcileFixture()
		for id, roles := range currentRoles {
			mockGateway.On("ResolveMember", ctx, id).Return(&Member{DiscordID: id, RoleIDs: roles}, nil)
		}
		if !dryRun {
			mockGateway.On("AddRole", ctx, mock.AnythingOfType("int64"), mock.AnythingOfType("string")).Return(nil)
		}

		result, err := svc.Reconcile(ctx, ReconcileInput{Members: members, Thresholds: thresholds, DryRun: dryRun})
		require.NoError(t, err)

		if dryRun {
			mockGateway.AssertNotCalled(t, "AddRole", mock.Anything, mock.Anything, mock.Anything)
		}
		return result
	}

	dry := run(true)
	live := run(false)

	// Identical snapshot, identical counters
	assert.Equal(t, live, dry)
}

func TestReconcileService_Reconcile_SkipsDepartedMembers(t *testing.T) {
	ctx := context.Background()
	_, mockGateway, svc := newReconcileFixture()

	input := ReconcileInput{
		Members: []MemberPoints{
			{DiscordID: 1, Points: 150},
			{DiscordID: 2, Points: 150},
		},
		Thresholds: RoleThresholds{Whitelist: 100, Moolalist: 200, FreeMint: 500},
	}

	// Member 1 left the server; member 2 resolution fails outright
	mockGateway.On("ResolveMember", ctx, int64(1)).Return(nil, nil)
	mockGateway.On("ResolveMember", ctx, int64(2)).Return(nil, errors.New("gateway unavailable"))

	result, err := svc.Reconcile(ctx, input)
	require.NoError(t, err)

	// Neither counted as added nor existing
	assert.Equal(t, models.RoleUpdateLog{}, *result)
	mockGateway.AssertNotCalled(t, "AddRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileService_Reconcile_GrantFailureDoesNotAbort(t *testing.T) {
	ctx := context.Background()
	_, mockGateway, svc := newReconcileFixture()

	input := ReconcileInput{
		Members: []MemberPoints{
			{DiscordID: 1, Points: 150},
			{DiscordID: 2, Points: 150},
		},
		Thresholds: RoleThresholds{Whitelist: 100, Moolalist: 200, FreeMint: 500},
	}

	mockGateway.On("ResolveMember", ctx, int64(1)).Return(&Member{DiscordID: 1}, nil)
	mockGateway.On("ResolveMember", ctx, int64(2)).Return(&Member{DiscordID: 2}, nil)
	mockGateway.On("AddRole", ctx, int64(1), "wl-role").Return(errors.New("rate limited"))
	mockGateway.On("AddRole", ctx, int64(2), "wl-role").Return(nil)

	result, err := svc.Reconcile(ctx, input)
	require.NoError(t, err)

	// The second member is still processed after the first grant fails
	assert.Equal(t, 2, result.Whitelist.Added)
	mockGateway.AssertExpectations(t)
}

func TestReconcileService_TeamMembers(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	mockGateway := new(MockMembershipGateway)
	mockUoW := new(MockUnitOfWork)
	mockUserRepo := new(MockUserRepository)
	mockUoW.SetRepositories(mockUserRepo, nil, nil)

	svc := NewReconcileService(mockFactory, mockGateway, testRoles, 0)

	team := models.TeamBullas
	users := []*models.User{
		{DiscordID: 10, Points: 500},
		{DiscordID: 11, Points: 250},
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetRanked", ctx, &team, []int64(nil)).Return(users, nil)

	members, err := svc.TeamMembers(ctx, team)
	require.NoError(t, err)

	assert.Equal(t, []MemberPoints{{DiscordID: 10, Points: 500}, {DiscordID: 11, Points: 250}}, members)
	mockFactory.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestReconcileService_TeamMembers_UnknownTeam(t *testing.T) {
	_, _, svc := newReconcileFixture()

	_, err := svc.TeamMembers(context.Background(), models.Team("pandas"))
	assert.Error(t, err)
}
