package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Board geometry and fleet composition are fixed by the rules.
const (
	BoardSize    = 10
	CodeLength   = 6
	CodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Fleet is the multiset of ship lengths placed on every board.
var Fleet = []int{4, 3, 3, 2, 2, 2, 1, 1, 1, 1}

// Sentinel errors surfaced to callers. None of them are retried by the
// engine; re-polling and re-submitting are client concerns.
var (
	ErrNotFound       = errors.New("game not found")
	ErrAlreadyStarted = errors.New("game already started")
	ErrInvalidMove    = errors.New("invalid move")
	ErrInternalFault  = errors.New("internal fault")
)

// Cell is the state of a single board square.
type Cell int

const (
	Empty Cell = iota
	Ship
	Hit
	Miss
	Sunk
)

var cellNames = map[Cell]string{
	Ship: "ship",
	Hit:  "hit",
	Miss: "miss",
	Sunk: "sunk",
}

func (c Cell) String() string {
	if name, ok := cellNames[c]; ok {
		return name
	}
	return "empty"
}

// MarshalJSON renders Empty as null and every other state as its name,
// which is the wire format clients render from.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c == Empty {
		return []byte("null"), nil
	}
	name, ok := cellNames[c]
	if !ok {
		return nil, fmt.Errorf("unknown cell state %d", int(c))
	}
	return json.Marshal(name)
}

// SessionStatus is the lifecycle state of a session. Transitions are
// strictly waiting -> active -> finished.
type SessionStatus string

const (
	StatusWaiting  SessionStatus = "waiting"
	StatusActive   SessionStatus = "active"
	StatusFinished SessionStatus = "finished"
)

// Result classifies one resolved shot.
type Result string

const (
	ResultMiss Result = "miss"
	ResultHit  Result = "hit"
	ResultSunk Result = "sunk"
)

// EventType labels entries of a session's append-only log.
type EventType string

const (
	EventGameStart     EventType = "gameStart"
	EventOpponentBoard EventType = "opponentBoard"
	EventMove          EventType = "move"
	EventGameOver      EventType = "gameOver"
)

// Event is one immutable fact appended to a session's log. IDs are a
// session-scoped counter starting at 1 and are never reused.
type Event struct {
	ID      int       `json:"id"`
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// OpponentBoardPayload carries the other player's layout to the player
// named in Player, so a polling client can render the hidden side.
type OpponentBoardPayload struct {
	Player int   `json:"player"`
	Board  Board `json:"board"`
}

// MovePayload records one resolved shot.
type MovePayload struct {
	Player    int    `json:"player"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Result    Result `json:"result"`
	NewPlayer int    `json:"newPlayer"`
}

// GameOverPayload ends a session's log.
type GameOverPayload struct {
	Message string `json:"message"`
}

// MoveRequest is a shot submitted by a client.
type MoveRequest struct {
	Player int `json:"player"`
	X      int `json:"x"`
	Y      int `json:"y"`
}

// PollResult is the point-in-time snapshot returned to a polling client.
type PollResult struct {
	Status        SessionStatus `json:"status"`
	CurrentPlayer int           `json:"currentPlayer"`
	Events        []Event       `json:"events"`
	LastEventID   int           `json:"lastEventId"`
}
