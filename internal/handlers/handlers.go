package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"seabattle/internal/game"
	"seabattle/internal/storage"

	qrcode "github.com/skip2/go-qrcode"
)

// Handler contains dependencies for HTTP handlers.
type Handler struct {
	Hub     *game.Hub
	Store   *storage.Store
	BaseURL string
}

// NewHandler creates a new handler instance.
func NewHandler(hub *game.Hub, store *storage.Store, baseURL string) *Handler {
	return &Handler{Hub: hub, Store: store, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

// HandleCreate starts a new game and returns its share code plus the
// creator's own board layout. The creator plays as player 1.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	s, err := h.Hub.Create(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "code": s.Code, "board": s.PlayerBoard(1)})
}

// HandleJoin admits the second player into a waiting game and returns
// the joiner's own board layout.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/join/")
	s, err := h.Hub.Lookup(code)
	if err != nil {
		writeError(w, err)
		return
	}
	board, err := s.Join(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "board": board})
}

// HandleMove resolves one shot.
func (h *Handler) HandleMove(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/move/")
	s, err := h.Hub.Lookup(code)
	if err != nil {
		writeError(w, err)
		return
	}

	var m game.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad json"})
		return
	}
	if m.Player != 1 && m.Player != 2 {
		writeError(w, game.ErrInvalidMove)
		return
	}

	result, newPlayer, err := s.Move(r.Context(), m.Player, m.X, m.Y)
	if err != nil {
		writeError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "result": result, "newPlayer": newPlayer})
}

// HandlePoll returns every event after the caller's cursor plus the
// session's current status and turn. Clients drive their own backoff;
// this is always a fast point-in-time read.
func (h *Handler) HandlePoll(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/poll/")
	s, err := h.Hub.Lookup(code)
	if err != nil {
		writeError(w, err)
		return
	}

	after := 0
	if q := r.URL.Query().Get("after"); q != "" {
		after, err = strconv.Atoi(q)
		if err != nil || after < 0 {
			WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad cursor"})
			return
		}
	}

	state := s.Poll(after)
	s.Touch()
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "state": state})
}

// HandleEnd finishes a game. Ending a finished game is a no-op.
func (h *Handler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/end/")
	s, err := h.Hub.Lookup(code)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.End(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// HandleQR renders the join link for a game as a QR code PNG.
func (h *Handler) HandleQR(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/qr/")
	if _, err := h.Hub.Lookup(code); err != nil {
		writeError(w, err)
		return
	}
	png, err := qrcode.Encode(h.BaseURL+"/join/"+code, qrcode.Medium, 256)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// HandleHistory serves a game's mirrored row and full event log from
// the database, which outlives the in-memory session.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/history/")
	pg, err := h.Store.LoadGameByCode(r.Context(), code)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, game.ErrNotFound)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	events := make([]map[string]any, 0, len(pg.Events))
	for _, ev := range pg.Events {
		events = append(events, map[string]any{
			"id":      ev.Seq,
			"type":    ev.Type,
			"payload": json.RawMessage(ev.Payload),
		})
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"ok":            true,
		"code":          pg.Game.Code,
		"status":        pg.Game.Status,
		"currentPlayer": pg.Game.CurrentPlayer,
		"player1Board":  json.RawMessage(pg.Game.Player1Board),
		"player2Board":  json.RawMessage(pg.Game.Player2Board),
		"events":        events,
	})
}

// HandleStats serves aggregate game counts from the mirror.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.FetchStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "stats": stats})
}

// writeError maps engine errors onto the JSON envelope. Domain
// rejections stay 200 with ok=false; only internal faults become 5xx.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusOK
	if errors.Is(err, game.ErrInternalFault) {
		status = http.StatusInternalServerError
	}
	WriteJSON(w, status, map[string]any{"ok": false, "error": err.Error()})
}
