package models

// RankedEntry is a user's position in a points-descending ordering over a
// filtered population. Derived on demand, never stored.
type RankedEntry struct {
	DiscordID int64
	Points    int64
	Team      *Team
	Rank      int // 1-based
}
