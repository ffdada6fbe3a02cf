package service

import (
	"context"

	"wanksy/events"
	"wanksy/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByDiscordID retrieves a user by their Discord ID
	GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error)

	// GetLinkedPage returns one page of wallet-linked users, points descending
	GetLinkedPage(ctx context.Context, offset, limit int) ([]*models.User, error)

	// GetRanked returns wallet-linked users ordered by points descending with
	// discord_id ascending as tie-break; team nil means all teams; excluded ids
	// are filtered out by the query
	GetRanked(ctx context.Context, team *models.Team, excluded []int64) ([]*models.User, error)

	// GetZeroPointUsers returns wallet-linked users with exactly zero points
	GetZeroPointUsers(ctx context.Context) ([]*models.User, error)

	// SetPoints sets a user's points to an absolute value
	SetPoints(ctx context.Context, discordID int64, points int64) error

	// SumTeamPoints returns the total points held by a team
	SumTeamPoints(ctx context.Context, team models.Team) (int64, error)

	// CountLinked returns the number of wallet-linked users
	CountLinked(ctx context.Context) (int, error)
}

// LinkTokenRepository defines the interface for wallet link token rows
type LinkTokenRepository interface {
	// Create inserts a new link token row
	Create(ctx context.Context, token *models.LinkToken) error

	// InvalidateUnused marks all unused tokens for a user as used
	InvalidateUnused(ctx context.Context, discordID int64) error
}

// SettingsRepository defines the interface for the persisted guild settings row
type SettingsRepository interface {
	// GetWLMinimum returns the stored whitelist minimum, or nil if none is stored
	GetWLMinimum(ctx context.Context) (*int64, error)

	// SetWLMinimum stores the whitelist minimum
	SetWLMinimum(ctx context.Context, minimum int64) error
}

// EventPublisher publishes events tied to the enclosing unit of work
type EventPublisher interface {
	Publish(e events.Event)
}

// UnitOfWork represents a transactional boundary over the repositories
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() UserRepository
	LinkTokenRepository() LinkTokenRepository
	SettingsRepository() SettingsRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// Member is a resolved guild member with their current role set
type Member struct {
	DiscordID int64
	RoleIDs   []string
}

// HasRole reports whether the member currently holds the given role
func (m *Member) HasRole(roleID string) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the member holds at least one of the given roles.
// Empty role ids are ignored so unset winner variants never match.
func (m *Member) HasAnyRole(roleIDs ...string) bool {
	for _, id := range roleIDs {
		if id != "" && m.HasRole(id) {
			return true
		}
	}
	return false
}

// MembershipGateway wraps the chat platform's member and role operations.
// ResolveMember returns (nil, nil) when the member is no longer in the guild.
type MembershipGateway interface {
	ResolveMember(ctx context.Context, discordID int64) (*Member, error)
	AddRole(ctx context.Context, discordID int64, roleID string) error
	RemoveRole(ctx context.Context, discordID int64, roleID string) error
	RoleName(ctx context.Context, roleID string) (string, error)
}

// RoleThresholds carries the three point thresholds of a reconciliation run
type RoleThresholds struct {
	Whitelist int64
	Moolalist int64
	FreeMint  int64
}

// MemberPoints is one member of the target population
type MemberPoints struct {
	DiscordID int64
	Points    int64
}

// ReconcileInput is the full input of a reconciliation run
type ReconcileInput struct {
	Members    []MemberPoints
	Thresholds RoleThresholds
	DryRun     bool
}

// ReconcileService computes and applies threshold role deltas
type ReconcileService interface {
	// Reconcile classifies every member against the thresholds and, unless
	// DryRun is set, grants missing base roles. Roles are never removed.
	Reconcile(ctx context.Context, in ReconcileInput) (*models.RoleUpdateLog, error)

	// TeamMembers loads the linked members of a team as reconciliation input
	TeamMembers(ctx context.Context, team models.Team) ([]MemberPoints, error)
}

// BulkAssignProgress is handed to the progress callback after every page
type BulkAssignProgress struct {
	Processed int
	Added     int
	Existing  int
	Errors    int
}

// BulkAssignService rolls a single flag role out across the linked population
type BulkAssignService interface {
	AssignFlagRole(ctx context.Context, roleID string, progress func(BulkAssignProgress)) (*models.BulkAssignResult, error)

	// LinkedCount returns the size of the population a rollout would walk
	LinkedCount(ctx context.Context) (int, error)
}

// PurgeService strips threshold roles from users at exactly zero points
type PurgeService interface {
	PurgeZeroBalance(ctx context.Context) (*models.PurgeResult, error)
}

// PageResult is a single leaderboard page plus the page count of the full ranking
type PageResult struct {
	Entries    []models.RankedEntry
	TotalPages int
}

// RankingService produces points-descending rankings and serves pages of them
type RankingService interface {
	// Rank builds the full ranking for a team filter (nil = all teams) with the
	// excluded ids removed before rank assignment
	Rank(ctx context.Context, team *models.Team, excluded []int64) ([]models.RankedEntry, error)

	// Page slices a ranking into its 1-indexed page
	Page(entries []models.RankedEntry, page, pageSize int) PageResult

	// FindSelf returns the entry of the given user, searching the whole ranking
	FindSelf(entries []models.RankedEntry, discordID int64) *models.RankedEntry

	// TeamTotal returns the combined points held by a team
	TeamTotal(ctx context.Context, team models.Team) (int64, error)
}

// SnapshotService exports the ranked linked population as CSV text
type SnapshotService interface {
	GenerateCSV(ctx context.Context, includeID bool) (string, error)
}

// TransferResult reports a completed moola transfer
type TransferResult struct {
	Amount       int64
	SenderPoints int64
}

// MoolaService mutates user point balances
type MoolaService interface {
	// Transfer moves amount from one user to another inside one transaction
	Transfer(ctx context.Context, fromDiscordID, toDiscordID, amount int64) (*TransferResult, error)

	// Fine deducts amount from a user, rejecting fines that exceed the balance
	Fine(ctx context.Context, discordID, amount int64) (int64, error)
}

// LinkingService issues wallet link tokens and watches for link completion
type LinkingService interface {
	IssueToken(ctx context.Context, discordID int64) (*models.LinkToken, error)

	// WatchLink polls the user row until an address appears or the watch
	// lifetime expires. The returned stop function cancels the watch.
	WatchLink(ctx context.Context, discordID int64, onLinked func(address string), onTimeout func()) (stop func())
}

// SettingsService carries the process-wide whitelist minimum
type SettingsService interface {
	// Load initializes the in-memory value from the store, falling back to the
	// configured default when no row exists
	Load(ctx context.Context, fallback int64) error

	WLMinimum() int64

	// SetWLMinimum persists and publishes a new whitelist minimum
	SetWLMinimum(ctx context.Context, minimum int64) error
}
