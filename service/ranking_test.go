package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanksy/models"
)

func rankingFixture(ctx context.Context, team *models.Team, excluded []int64, users []*models.User) RankingService {
	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockUserRepo := new(MockUserRepository)
	mockUoW.SetRepositories(mockUserRepo, nil, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetRanked", ctx, team, excluded).Return(users, nil)

	return NewRankingService(mockFactory)
}

func TestRankingService_Rank_PointsDescending(t *testing.T) {
	ctx := context.Background()

	// Store hands rows back unsorted; ordering must not depend on it
	users := []*models.User{
		{DiscordID: 3, Points: 100},
		{DiscordID: 1, Points: 500},
		{DiscordID: 4, Points: 100},
		{DiscordID: 2, Points: 250},
	}

	svc := rankingFixture(ctx, nil, nil, users)
	entries, err := svc.Rank(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i-1].Points, entries[i].Points, "points must be non-increasing")
	}

	// Ties break by discord_id ascending
	assert.Equal(t, int64(1), entries[0].DiscordID)
	assert.Equal(t, int64(2), entries[1].DiscordID)
	assert.Equal(t, int64(3), entries[2].DiscordID)
	assert.Equal(t, int64(4), entries[3].DiscordID)

	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
	}
}

func TestRankingService_Rank_ExclusionConsumesNoRank(t *testing.T) {
	ctx := context.Background()

	// The store already filtered out the excluded id 1
	users := []*models.User{
		{DiscordID: 2, Points: 250},
		{DiscordID: 3, Points: 100},
	}
	excluded := []int64{1}

	svc := rankingFixture(ctx, nil, excluded, users)
	entries, err := svc.Rank(ctx, nil, excluded)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].DiscordID)
	assert.Equal(t, 1, entries[0].Rank, "rank 1 belongs to the first non-excluded user")
	for _, e := range entries {
		assert.NotEqual(t, int64(1), e.DiscordID)
	}
}

func makeRankedEntries(n int) []models.RankedEntry {
	entries := make([]models.RankedEntry, 0, n)
	for i := 1; i <= n; i++ {
		entries = append(entries, models.RankedEntry{
			DiscordID: int64(i),
			Points:    int64((n - i) * 10),
			Rank:      i,
		})
	}
	return entries
}

func TestRankingService_Page(t *testing.T) {
	svc := NewRankingService(new(MockUnitOfWorkFactory))
	entries := makeRankedEntries(25)

	t.Run("total pages", func(t *testing.T) {
		result := svc.Page(entries, 1, 10)
		assert.Equal(t, 3, result.TotalPages)
		assert.Len(t, result.Entries, 10)
	})

	t.Run("last partial page", func(t *testing.T) {
		result := svc.Page(entries, 3, 10)
		assert.Len(t, result.Entries, 5)
		assert.Equal(t, 21, result.Entries[0].Rank)
	})

	t.Run("out of range", func(t *testing.T) {
		assert.Empty(t, svc.Page(entries, 4, 10).Entries)
		assert.Empty(t, svc.Page(entries, 0, 10).Entries)
		assert.Empty(t, svc.Page(entries, -1, 10).Entries)
	})

	t.Run("pages concatenate to the full ranking", func(t *testing.T) {
		var seen []models.RankedEntry
		for page := 1; page <= 3; page++ {
			seen = append(seen, svc.Page(entries, page, 10).Entries...)
		}
		assert.Equal(t, entries, seen)
	})

	t.Run("empty ranking", func(t *testing.T) {
		result := svc.Page(nil, 1, 10)
		assert.Equal(t, 0, result.TotalPages)
		assert.Empty(t, result.Entries)
	})
}

func TestRankingService_FindSelf(t *testing.T) {
	svc := NewRankingService(new(MockUnitOfWorkFactory))
	entries := makeRankedEntries(25)

	t.Run("found beyond the first page", func(t *testing.T) {
		self := svc.FindSelf(entries, 23)
		require.NotNil(t, self)
		assert.Equal(t, 23, self.Rank)
	})

	t.Run("absent", func(t *testing.T) {
		assert.Nil(t, svc.FindSelf(entries, 999))
	})
}

func TestRankingService_TeamFilterPassedThrough(t *testing.T) {
	ctx := context.Background()
	team := models.TeamBeras

	addr := "0xabc"
	users := []*models.User{{DiscordID: 7, Address: &addr, Points: 10, Team: &team}}

	svc := rankingFixture(ctx, &team, nil, users)
	entries, err := svc.Rank(ctx, &team, nil)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Team)
	assert.Equal(t, models.TeamBeras, *entries[0].Team)
}

func TestRankingService_RankPropagatesStoreError(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockUserRepo := new(MockUserRepository)
	mockUoW.SetRepositories(mockUserRepo, nil, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetRanked", ctx, (*models.Team)(nil), []int64(nil)).
		Return(nil, fmt.Errorf("store down"))

	svc := NewRankingService(mockFactory)
	_, err := svc.Rank(ctx, nil, nil)
	assert.Error(t, err)
}

func TestRankingService_TeamTotal(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockUserRepo := new(MockUserRepository)
	mockUoW.SetRepositories(mockUserRepo, nil, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("SumTeamPoints", ctx, models.TeamBullas).Return(int64(12500), nil)

	svc := NewRankingService(mockFactory)
	total, err := svc.TeamTotal(ctx, models.TeamBullas)
	require.NoError(t, err)
	assert.Equal(t, int64(12500), total)
}
