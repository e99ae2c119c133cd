package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store wraps a gorm DB instance and provides helper methods for
// mirroring games and their event logs. A nil Store is valid and turns
// every write into a no-op, so the engine runs without a database.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new store helper from a gorm DB.
func NewStore(db *gorm.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// DB exposes the underlying gorm DB instance.
func (s *Store) DB() *gorm.DB {
	if s == nil {
		return nil
	}
	return s.db
}

// ErrNotFound is returned when a record is not found.
var ErrNotFound = gorm.ErrRecordNotFound

// GameStateUpdate represents a partial update to a game row.
type GameStateUpdate struct {
	Status        *string
	CurrentPlayer *int
	Player1Board  *string
	Player2Board  *string
	LastSeen      *time.Time
	CompletedAt   *time.Time
}

// CreateGame inserts a new game row with both freshly placed boards.
func (s *Store) CreateGame(ctx context.Context, id uuid.UUID, code, status string, currentPlayer int, player1Board, player2Board string, lastSeen time.Time) error {
	if s == nil {
		return nil
	}
	game := Game{
		ID:            id,
		Code:          code,
		Status:        status,
		CurrentPlayer: currentPlayer,
		Player1Board:  player1Board,
		Player2Board:  player2Board,
		LastSeen:      lastSeen,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&game).Error
}

// SaveGameState applies partial updates to the game row.
func (s *Store) SaveGameState(ctx context.Context, id uuid.UUID, upd GameStateUpdate) error {
	if s == nil {
		return nil
	}
	updates := make(map[string]any)
	if upd.Status != nil {
		updates["status"] = *upd.Status
	}
	if upd.CurrentPlayer != nil {
		updates["current_player"] = *upd.CurrentPlayer
	}
	if upd.Player1Board != nil {
		updates["player1_board"] = *upd.Player1Board
	}
	if upd.Player2Board != nil {
		updates["player2_board"] = *upd.Player2Board
	}
	if upd.LastSeen != nil {
		updates["last_seen"] = *upd.LastSeen
	}
	if upd.CompletedAt != nil {
		updates["completed_at"] = *upd.CompletedAt
	}
	if len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&Game{}).Where("id = ?", id).Updates(updates).Error
}

// AppendEvent inserts one event row for the given game. Seq collisions
// are ignored: the engine is the sequence authority and may replay a
// mirror write after a transient failure.
func (s *Store) AppendEvent(ctx context.Context, gameID uuid.UUID, seq int, eventType, payload string) error {
	if s == nil {
		return nil
	}
	event := Event{
		GameID:  gameID,
		Seq:     seq,
		Type:    eventType,
		Payload: payload,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&event).Error
}

// PersistedGame is a mirrored game row together with its event log.
type PersistedGame struct {
	Game   Game
	Events []Event
}

// LoadGameByCode fetches a mirrored game and its events in seq order.
// This keeps working after the in-memory session has been reaped.
func (s *Store) LoadGameByCode(ctx context.Context, code string) (*PersistedGame, error) {
	if s == nil {
		return nil, gorm.ErrRecordNotFound
	}
	var game Game
	if err := s.db.WithContext(ctx).First(&game, "code = ?", code).Error; err != nil {
		return nil, err
	}
	var events []Event
	if err := s.db.WithContext(ctx).
		Where("game_id = ?", game.ID).
		Order("seq ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return &PersistedGame{Game: game, Events: events}, nil
}

// Stats represents aggregate counts for games.
type Stats struct {
	Started  int64 `json:"started"`
	Active   int64 `json:"active"`
	Finished int64 `json:"finished"`
}

// FetchStats aggregates game counts across the mirror.
func (s *Store) FetchStats(ctx context.Context) (Stats, error) {
	var stats Stats
	if s == nil {
		return stats, nil
	}
	if err := s.db.WithContext(ctx).Model(&Game{}).Count(&stats.Started).Error; err != nil {
		return stats, err
	}
	if err := s.db.WithContext(ctx).Model(&Game{}).Where("status = ?", "active").Count(&stats.Active).Error; err != nil {
		return stats, err
	}
	if err := s.db.WithContext(ctx).Model(&Game{}).Where("completed_at IS NOT NULL").Count(&stats.Finished).Error; err != nil {
		return stats, err
	}
	return stats, nil
}
