package storage

import (
	"time"

	"github.com/google/uuid"
)

// Game mirrors one session's authoritative in-memory state. Boards are
// stored as the JSON grids the engine serializes.
type Game struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code          string    `gorm:"uniqueIndex"`
	Status        string    `gorm:"index"`
	CurrentPlayer int
	Player1Board  string
	Player2Board  string
	LastSeen      time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Events        []Event
}

// Event is one appended fact of a session's log. Seq is the
// session-scoped event id assigned by the engine.
type Event struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GameID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_game_seq"`
	Game      Game      `gorm:"constraint:OnDelete:CASCADE;"`
	Seq       int       `gorm:"uniqueIndex:idx_game_seq"`
	Type      string
	Payload   string
	CreatedAt time.Time
}
