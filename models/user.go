package models

import (
	"time"
)

// Team is one of the two mutually exclusive cohorts a user belongs to
type Team string

const (
	TeamBullas Team = "bullas"
	TeamBeras  Team = "beras"
)

// IsValid reports whether the team label is a known cohort
func (t Team) IsValid() bool {
	return t == TeamBullas || t == TeamBeras
}

// User represents a Discord user with a moola balance and an optional linked wallet
type User struct {
	DiscordID int64     `db:"discord_id"`
	Address   *string   `db:"address"` // nil until a wallet is linked
	Points    int64     `db:"points"`
	Team      *Team     `db:"team"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Linked reports whether the user has completed wallet linking
func (u *User) Linked() bool {
	return u.Address != nil && *u.Address != ""
}
