package game

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"seabattle/internal/logging"
	"seabattle/internal/storage"
)

// Session is the authoritative state of one game. All mutation happens
// under Mu; Poll takes the read side only, so concurrent polls never
// serialize behind each other.
type Session struct {
	Mu            sync.RWMutex
	Code          string
	Status        SessionStatus
	CurrentPlayer int
	LastSeen      time.Time

	boards [2]*Board
	events []Event
	sunk   [2]int
	total  [2]int

	id    uuid.UUID
	store *storage.Store
}

func newSession(code string, store *storage.Store) (*Session, error) {
	b1, err := NewBoard()
	if err != nil {
		return nil, err
	}
	b2, err := NewBoard()
	if err != nil {
		return nil, err
	}
	return &Session{
		Code:          code,
		Status:        StatusWaiting,
		CurrentPlayer: 1,
		LastSeen:      time.Now(),
		boards:        [2]*Board{b1, b2},
		total:         [2]int{b1.ShipCells(), b2.ShipCells()},
		id:            uuid.New(),
		store:         store,
	}, nil
}

// Touch updates the last seen timestamp for a session.
func (s *Session) Touch() {
	s.Mu.Lock()
	s.LastSeen = time.Now()
	s.Mu.Unlock()
}

// PlayerBoard returns a copy of the given player's own board layout.
func (s *Session) PlayerBoard(player int) Board {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	return *s.boards[player-1]
}

// Join admits the second player. The session becomes active, the log
// gains a gameStart event and one opponentBoard event per player, and
// the joiner's own layout is returned.
func (s *Session) Join(ctx context.Context) (Board, error) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if s.Status != StatusWaiting {
		return Board{}, ErrAlreadyStarted
	}
	s.Status = StatusActive
	s.LastSeen = time.Now()
	evs := []Event{
		s.appendEvent(EventGameStart, struct{}{}),
		s.appendEvent(EventOpponentBoard, OpponentBoardPayload{Player: 1, Board: *s.boards[1]}),
		s.appendEvent(EventOpponentBoard, OpponentBoardPayload{Player: 2, Board: *s.boards[0]}),
	}
	s.mirrorStateLocked(ctx)
	s.mirrorEventsLocked(ctx, evs)
	return *s.boards[1], nil
}

// Move resolves one shot by player at (x, y) on the opponent's board.
// The turn passes only on a miss; a hit or sunk keeps the shooter's
// turn. Returns the result and the player to move next.
func (s *Session) Move(ctx context.Context, player, x, y int) (Result, int, error) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if s.Status != StatusActive || player != s.CurrentPlayer {
		return "", 0, ErrInvalidMove
	}
	if !inBounds(x, y) {
		return "", 0, ErrInvalidMove
	}
	opponent := 3 - player
	result, sunkCells, err := resolve(s.boards[opponent-1], x, y)
	if err != nil {
		return "", 0, err
	}
	s.LastSeen = time.Now()
	if result == ResultMiss {
		s.CurrentPlayer = opponent
	}
	evs := []Event{s.appendEvent(EventMove, MovePayload{
		Player:    player,
		X:         x,
		Y:         y,
		Result:    result,
		NewPlayer: s.CurrentPlayer,
	})}
	s.sunk[opponent-1] += sunkCells
	if result == ResultSunk && s.sunk[opponent-1] >= s.total[opponent-1] {
		s.Status = StatusFinished
		evs = append(evs, s.appendEvent(EventGameOver, GameOverPayload{
			Message: fmt.Sprintf("Player %d wins", player),
		}))
	}
	s.mirrorStateLocked(ctx)
	s.mirrorEventsLocked(ctx, evs)
	return result, s.CurrentPlayer, nil
}

// Poll returns every event after the given cursor plus a snapshot of
// status and turn. It is a fast point-in-time read; waiting between
// polls is entirely the caller's concern.
func (s *Session) Poll(afterEventID int) PollResult {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	if afterEventID < 0 {
		afterEventID = 0
	}
	res := PollResult{
		Status:        s.Status,
		CurrentPlayer: s.CurrentPlayer,
		Events:        []Event{},
		LastEventID:   afterEventID,
	}
	// Event i has id i+1, so the cursor doubles as a slice offset.
	if afterEventID < len(s.events) {
		res.Events = append(res.Events, s.events[afterEventID:]...)
		res.LastEventID = s.events[len(s.events)-1].ID
	}
	return res
}

// End finishes the session. Idempotent: ending a finished session
// succeeds without appending anything.
func (s *Session) End(ctx context.Context) error {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if s.Status == StatusFinished {
		return nil
	}
	s.Status = StatusFinished
	s.LastSeen = time.Now()
	ev := s.appendEvent(EventGameOver, GameOverPayload{Message: "Game ended"})
	s.mirrorStateLocked(ctx)
	s.mirrorEventsLocked(ctx, []Event{ev})
	return nil
}

func (s *Session) appendEvent(t EventType, payload any) Event {
	ev := Event{ID: len(s.events) + 1, Type: t, Payload: payload}
	s.events = append(s.events, ev)
	return ev
}

// mirrorCreate writes the freshly created session to the persistence
// mirror. Like all mirror writes it is best effort: the in-memory state
// stays authoritative and failures only get logged.
func (s *Session) mirrorCreate(ctx context.Context) {
	if s.store == nil {
		return
	}
	b1, _ := json.Marshal(s.boards[0])
	b2, _ := json.Marshal(s.boards[1])
	err := s.store.CreateGame(ctx, s.id, s.Code, string(s.Status), s.CurrentPlayer,
		string(b1), string(b2), s.LastSeen)
	if err != nil {
		logging.Errorf("mirror create %s: %v", s.Code, err)
	}
}

func (s *Session) mirrorStateLocked(ctx context.Context) {
	if s.store == nil {
		return
	}
	b1, _ := json.Marshal(s.boards[0])
	b2, _ := json.Marshal(s.boards[1])
	status := string(s.Status)
	current := s.CurrentPlayer
	board1, board2 := string(b1), string(b2)
	lastSeen := s.LastSeen
	upd := storage.GameStateUpdate{
		Status:        &status,
		CurrentPlayer: &current,
		Player1Board:  &board1,
		Player2Board:  &board2,
		LastSeen:      &lastSeen,
	}
	if s.Status == StatusFinished {
		now := time.Now()
		upd.CompletedAt = &now
	}
	if err := s.store.SaveGameState(ctx, s.id, upd); err != nil {
		logging.Errorf("mirror state %s: %v", s.Code, err)
	}
}

func (s *Session) mirrorEventsLocked(ctx context.Context, evs []Event) {
	if s.store == nil {
		return
	}
	for _, ev := range evs {
		payload, err := json.Marshal(ev.Payload)
		if err == nil {
			err = s.store.AppendEvent(ctx, s.id, ev.ID, string(ev.Type), string(payload))
		}
		if err != nil {
			logging.Errorf("mirror event %d for %s: %v", ev.ID, s.Code, err)
		}
	}
}
