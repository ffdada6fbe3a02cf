package repository

import (
	"context"
	"fmt"

	"wanksy/database"
	"wanksy/models"
)

// LinkTokenRepository provides access to wallet link token rows
type LinkTokenRepository struct {
	q queryable
}

// NewLinkTokenRepository creates a new link token repository
func NewLinkTokenRepository(db *database.DB) *LinkTokenRepository {
	return &LinkTokenRepository{q: db.Pool}
}

func newLinkTokenRepositoryWithTx(tx queryable) *LinkTokenRepository {
	return &LinkTokenRepository{q: tx}
}

// Create inserts a new link token row
func (r *LinkTokenRepository) Create(ctx context.Context, token *models.LinkToken) error {
	query := `
		INSERT INTO link_tokens (token, discord_id, used)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query, token.Token, token.DiscordID, token.Used).Scan(&token.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create link token for user %d: %w", token.DiscordID, err)
	}

	return nil
}

// InvalidateUnused marks all unused tokens for a user as used so only the most
// recently issued token can complete the link
func (r *LinkTokenRepository) InvalidateUnused(ctx context.Context, discordID int64) error {
	query := `
		UPDATE link_tokens
		SET used = TRUE
		WHERE discord_id = $1 AND used = FALSE
	`

	if _, err := r.q.Exec(ctx, query, discordID); err != nil {
		return fmt.Errorf("failed to invalidate link tokens for user %d: %w", discordID, err)
	}

	return nil
}
