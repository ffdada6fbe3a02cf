package service

import (
	"context"
	"fmt"
	"sort"

	"wanksy/models"
)

type rankingService struct {
	uowFactory UnitOfWorkFactory
}

// NewRankingService creates a new ranking service
func NewRankingService(uowFactory UnitOfWorkFactory) RankingService {
	return &rankingService{
		uowFactory: uowFactory,
	}
}

// Rank builds the full points-descending ranking for a team filter (nil means
// all teams). Excluded ids are removed before ranks are assigned, so they
// consume neither rank slots nor page slots.
func (s *rankingService) Rank(ctx context.Context, team *models.Team, excluded []int64) ([]models.RankedEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetRanked(ctx, team, excluded)
	if err != nil {
		return nil, fmt.Errorf("failed to load ranked users: %w", err)
	}

	entries := make([]models.RankedEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, models.RankedEntry{
			DiscordID: u.DiscordID,
			Points:    u.Points,
			Team:      u.Team,
		})
	}

	// The store already orders this way; re-assert so rank assignment never
	// depends on the store's ordering guarantees.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].DiscordID < entries[j].DiscordID
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, nil
}

// Page slices a ranking into its 1-indexed page. Out-of-range pages return no
// entries; navigation clamping is the caller's job.
func (s *rankingService) Page(entries []models.RankedEntry, page, pageSize int) PageResult {
	if pageSize <= 0 {
		pageSize = 10
	}

	totalPages := (len(entries) + pageSize - 1) / pageSize

	if page < 1 || page > totalPages {
		return PageResult{Entries: nil, TotalPages: totalPages}
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}

	return PageResult{Entries: entries[start:end], TotalPages: totalPages}
}

// TeamTotal sums team points in the store rather than over a loaded ranking,
// so it counts unranked members (excluded team accounts) too.
func (s *rankingService) TeamTotal(ctx context.Context, team models.Team) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	total, err := uow.UserRepository().SumTeamPoints(ctx, team)
	if err != nil {
		return 0, fmt.Errorf("failed to sum team points: %w", err)
	}

	return total, nil
}

// FindSelf searches the entire ranking for the given user, not just one page,
// since the caller always reports a global rank.
func (s *rankingService) FindSelf(entries []models.RankedEntry, discordID int64) *models.RankedEntry {
	for i := range entries {
		if entries[i].DiscordID == discordID {
			return &entries[i]
		}
	}
	return nil
}
