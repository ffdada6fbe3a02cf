package repository

import (
	"context"
	"fmt"

	"wanksy/database"
	"wanksy/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// queryable is satisfied by both *pgxpool.Pool and pgx.Tx
type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const userColumns = `discord_id, address, points, team, created_at, updated_at`

// UserRepository provides access to user rows
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository bound to a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.DiscordID,
		&user.Address,
		&user.Points,
		&user.Team,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func collectUsers(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// GetByDiscordID retrieves a user by their Discord ID
func (r *UserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE discord_id = $1
	`

	user, err := scanUser(r.q.QueryRow(ctx, query, discordID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by discord ID %d: %w", discordID, err)
	}

	return user, nil
}

// GetLinkedPage returns one page of wallet-linked users, points descending.
// Paged so bulk operations never materialize the full population.
func (r *UserRepository) GetLinkedPage(ctx context.Context, offset, limit int) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE address IS NOT NULL
		ORDER BY points DESC, discord_id ASC
		OFFSET $1 LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get linked users page: %w", err)
	}

	return collectUsers(rows)
}

// GetRanked returns wallet-linked users in ranking order. Ties on points break
// by discord_id ascending so pagination over one snapshot is stable.
func (r *UserRepository) GetRanked(ctx context.Context, team *models.Team, excluded []int64) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE address IS NOT NULL
		  AND ($1::text IS NULL OR team = $1)
		  AND NOT (discord_id = ANY($2::bigint[]))
		ORDER BY points DESC, discord_id ASC
	`

	if excluded == nil {
		excluded = []int64{}
	}

	rows, err := r.q.Query(ctx, query, team, excluded)
	if err != nil {
		return nil, fmt.Errorf("failed to get ranked users: %w", err)
	}

	return collectUsers(rows)
}

// GetZeroPointUsers returns wallet-linked users with exactly zero points
func (r *UserRepository) GetZeroPointUsers(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE address IS NOT NULL AND points = 0
		ORDER BY discord_id ASC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get zero point users: %w", err)
	}

	return collectUsers(rows)
}

// SetPoints sets a user's points to an absolute value
func (r *UserRepository) SetPoints(ctx context.Context, discordID int64, points int64) error {
	query := `
		UPDATE users
		SET points = $1, updated_at = NOW()
		WHERE discord_id = $2
	`

	result, err := r.q.Exec(ctx, query, points, discordID)
	if err != nil {
		return fmt.Errorf("failed to set points for user %d: %w", discordID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user with discord ID %d not found", discordID)
	}

	return nil
}

// SumTeamPoints returns the total points held by a team
func (r *UserRepository) SumTeamPoints(ctx context.Context, team models.Team) (int64, error) {
	query := `
		SELECT COALESCE(SUM(points), 0)
		FROM users
		WHERE team = $1
	`

	var total int64
	if err := r.q.QueryRow(ctx, query, team).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum points for team %s: %w", team, err)
	}

	return total, nil
}

// CountLinked returns the number of wallet-linked users
func (r *UserRepository) CountLinked(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM users
		WHERE address IS NOT NULL
	`

	var count int
	if err := r.q.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count linked users: %w", err)
	}

	return count, nil
}
