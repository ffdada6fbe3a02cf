package testutil

import (
	"context"
	"fmt"
	"testing"

	"wanksy/database"
	"wanksy/models"

	"github.com/stretchr/testify/require"
)

// InsertUser inserts a user row directly, bypassing the repositories
func InsertUser(t *testing.T, db *database.DB, user *models.User) {
	query := `
		INSERT INTO users (discord_id, address, points, team)
		VALUES ($1, $2, $3, $4)
	`
	_, err := db.Exec(context.Background(), query, user.DiscordID, user.Address, user.Points, user.Team)
	require.NoError(t, err)
}

// LinkedUser builds a wallet-linked user with the given points
func LinkedUser(discordID int64, points int64, team models.Team) *models.User {
	address := fmt.Sprintf("0x%040x", discordID)
	return &models.User{
		DiscordID: discordID,
		Address:   &address,
		Points:    points,
		Team:      &team,
	}
}

// UnlinkedUser builds a user without a wallet address
func UnlinkedUser(discordID int64, points int64) *models.User {
	return &models.User{
		DiscordID: discordID,
		Points:    points,
	}
}
