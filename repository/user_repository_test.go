package repository

import (
	"context"
	"testing"

	"wanksy/models"
	"wanksy/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByDiscordID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		user, err := repo.GetByDiscordID(ctx, 404)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("found", func(t *testing.T) {
		testutil.InsertUser(t, testDB.DB, testutil.LinkedUser(1001, 250, models.TeamBullas))

		user, err := repo.GetByDiscordID(ctx, 1001)
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, int64(1001), user.DiscordID)
		assert.Equal(t, int64(250), user.Points)
		assert.True(t, user.Linked())
		require.NotNil(t, user.Team)
		assert.Equal(t, models.TeamBullas, *user.Team)
	})
}

func TestUserRepository_GetRanked(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.InsertUser(t, testDB.DB, testutil.LinkedUser(1, 300, models.TeamBullas))
	testutil.InsertUser(t, testDB.DB, testutil.LinkedUser(2, 500, models.TeamBeras))
	testutil.InsertUser(t, testDB.DB, testutil.LinkedUser(3, 300, models.TeamBullas))
	testutil.InsertUser(t, testDB.DB, testutil.LinkedUser(4, 100, models.TeamBeras))
	// Never ranked: no wallet linked
	testutil.InsertUser(t, testDB.DB, testutil.UnlinkedUser(5, 9000))

	t.Run("all teams, points descending with id tie-break", func(t *testing.T) {
		users, err := repo.GetRanked(ctx, nil, nil)
		require.NoError(t, err)
		require.Len(t, users, 4)

		ids := []int64{users[0].DiscordID, users[1].DiscordID, users[2].DiscordID, users[3].DiscordID}
		assert.Equal(t, []int64{2, 1, 3, 4}, ids)
	})

	t.Run("team filter", func(t *testing.T) {
		team := models.TeamBullas
		users, err := repo.GetRanked(ctx, &team, nil)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, int64(1), users[0].DiscordID)
		assert.Equal(t, int64(3), users[1].DiscordID)
	})

	t.Run("exclusion list", func(t *testing.T) {
		users, err := repo.GetRanked(ctx, nil, []int64{2, 3})
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, int64(1), users[0].DiscordID)
		assert.Equal(t, int64(4), users[1].DiscordID)
	})
}

func TestUserRepository_SetPoints(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.InsertUser(t, testDB.DB, testutil.LinkedUser(42, 100, models.TeamBeras))

	t.Run("set absolute", func(t *testing.T) {
		err := repo.SetPoints(ctx, 42, 70)
		require.NoError(t, err)

		user, err := repo.GetByDiscordID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(70), user.Points)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := repo.SetPoints(ctx, 404, 10)
		assert.Error(t, err)
	})
}

func TestUserRepository_GetLinkedPage(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	for i := int64(1); i <= 25; i++ {
		testutil.InsertUser(t, testDB.DB, testutil.LinkedUser(i, i*10, models.TeamBullas))
	}

	var seen []int64
	offset := 0
	for {
		page, err := repo.GetLinkedPage(ctx, offset, 10)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		for _, u := range page {
			seen = append(seen, u.DiscordID)
		}
		offset += len(page)
	}

	// Paging walks the whole population exactly once
	assert.Len(t, seen, 25)
	unique := make(map[int64]bool)
	for _, id := range seen {
		unique[id] = true
	}
	assert.Len(t, unique, 25)

	count, err := repo.CountLinked(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, count)
}

func TestUserRepository_ZeroPointsAndTeamSum(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.InsertUser(t, testDB.DB, testutil.LinkedUser(1, 0, models.TeamBullas))
	testutil.InsertUser(t, testDB.DB, testutil.LinkedUser(2, 150, models.TeamBullas))
	testutil.InsertUser(t, testDB.DB, testutil.LinkedUser(3, 0, models.TeamBeras))
	testutil.InsertUser(t, testDB.DB, testutil.UnlinkedUser(4, 0))

	zeros, err := repo.GetZeroPointUsers(ctx)
	require.NoError(t, err)
	require.Len(t, zeros, 2)
	assert.Equal(t, int64(1), zeros[0].DiscordID)
	assert.Equal(t, int64(3), zeros[1].DiscordID)

	total, err := repo.SumTeamPoints(ctx, models.TeamBullas)
	require.NoError(t, err)
	assert.Equal(t, int64(150), total)
}
