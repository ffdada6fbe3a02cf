package models

import (
	"time"

	"github.com/google/uuid"
)

// LinkToken is a one-shot token handed to the external wallet-linking flow.
// The bot only ever creates rows; consumption happens out of process.
type LinkToken struct {
	Token     uuid.UUID `db:"token"`
	DiscordID int64     `db:"discord_id"`
	Used      bool      `db:"used"`
	CreatedAt time.Time `db:"created_at"`
}
