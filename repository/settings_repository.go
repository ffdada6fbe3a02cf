package repository

import (
	"context"
	"fmt"

	"wanksy/database"

	"github.com/jackc/pgx/v5"
)

// SettingsRepository provides access to the single guild settings row
type SettingsRepository struct {
	q queryable
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{q: db.Pool}
}

func newSettingsRepositoryWithTx(tx queryable) *SettingsRepository {
	return &SettingsRepository{q: tx}
}

// GetWLMinimum returns the stored whitelist minimum, or nil if none is stored
func (r *SettingsRepository) GetWLMinimum(ctx context.Context) (*int64, error) {
	query := `
		SELECT wl_minimum
		FROM guild_settings
		WHERE id = 1
	`

	var minimum int64
	err := r.q.QueryRow(ctx, query).Scan(&minimum)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get whitelist minimum: %w", err)
	}

	return &minimum, nil
}

// SetWLMinimum stores the whitelist minimum
func (r *SettingsRepository) SetWLMinimum(ctx context.Context, minimum int64) error {
	query := `
		INSERT INTO guild_settings (id, wl_minimum)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET wl_minimum = EXCLUDED.wl_minimum, updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, minimum); err != nil {
		return fmt.Errorf("failed to set whitelist minimum: %w", err)
	}

	return nil
}
