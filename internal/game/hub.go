package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"seabattle/internal/logging"
	"seabattle/internal/storage"
	"seabattle/pkg/utils"
)

const codeAttempts = 100

// Hub is the process-wide registry of sessions, keyed by share code.
// Codes are assigned check-and-insert under the hub mutex, so two
// concurrent creates can never claim the same code.
type Hub struct {
	Mu    sync.Mutex
	Games map[string]*Session

	store *storage.Store
}

// NewHub creates a session registry with a reaper goroutine that drops
// sessions idle for more than 24 hours. Nothing else ever removes an
// entry.
func NewHub(store *storage.Store) *Hub {
	h := &Hub{Games: make(map[string]*Session), store: store}
	go func() {
		for {
			time.Sleep(5 * time.Minute)
			h.reap()
		}
	}()
	return h
}

func (h *Hub) reap() {
	h.Mu.Lock()
	for code, s := range h.Games {
		s.Mu.RLock()
		idle := time.Since(s.LastSeen) > 24*time.Hour
		s.Mu.RUnlock()
		if idle {
			logging.Debugf("reaping idle session %s", code)
			delete(h.Games, code)
		}
	}
	h.Mu.Unlock()
}

// Create places both boards, registers the session under a fresh code,
// and returns it. The creator plays as player 1.
func (h *Hub) Create(ctx context.Context) (*Session, error) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	code, err := h.newCodeLocked()
	if err != nil {
		return nil, err
	}
	s, err := newSession(code, h.store)
	if err != nil {
		return nil, err
	}
	s.mirrorCreate(ctx)
	h.Games[code] = s
	return s, nil
}

// Lookup resolves a share code to its session.
func (h *Hub) Lookup(code string) (*Session, error) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	if s, ok := h.Games[code]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (h *Hub) newCodeLocked() (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code := utils.RandomCode(CodeAlphabet, CodeLength)
		if _, taken := h.Games[code]; !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: code generation exhausted", ErrInternalFault)
}
