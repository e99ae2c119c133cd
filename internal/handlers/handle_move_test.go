package handlers

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"seabattle/internal/game"
)

func newTestHandler() *Handler {
	return NewHandler(game.NewHub(nil), nil, "http://localhost:8080")
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func createGame(t *testing.T, h *Handler) string {
	t.Helper()
	w := httptest.NewRecorder()
	h.HandleCreate(w, httptest.NewRequest("POST", "/create", nil))
	resp := decodeBody(t, w)
	if !resp["ok"].(bool) {
		t.Fatalf("create failed: %v", resp)
	}
	return resp["code"].(string)
}

func joinGame(t *testing.T, h *Handler, code string) {
	t.Helper()
	w := httptest.NewRecorder()
	h.HandleJoin(w, httptest.NewRequest("POST", "/join/"+code, nil))
	if resp := decodeBody(t, w); !resp["ok"].(bool) {
		t.Fatalf("join failed: %v", resp)
	}
}

func TestCreateReturnsCodeAndBoard(t *testing.T) {
	h := newTestHandler()
	w := httptest.NewRecorder()
	h.HandleCreate(w, httptest.NewRequest("POST", "/create", nil))
	resp := decodeBody(t, w)
	if !resp["ok"].(bool) {
		t.Fatalf("create failed: %v", resp)
	}
	if len(resp["code"].(string)) != game.CodeLength {
		t.Fatalf("unexpected code %q", resp["code"])
	}

	rows := resp["board"].([]any)
	if len(rows) != game.BoardSize {
		t.Fatalf("expected %d rows, got %d", game.BoardSize, len(rows))
	}
	ships := 0
	for _, row := range rows {
		for _, cell := range row.([]any) {
			if cell == "ship" {
				ships++
			}
		}
	}
	if ships != 20 {
		t.Fatalf("expected 20 ship cells in own layout, got %d", ships)
	}
}

func TestJoinTwiceRejected(t *testing.T) {
	h := newTestHandler()
	code := createGame(t, h)
	joinGame(t, h, code)

	w := httptest.NewRecorder()
	h.HandleJoin(w, httptest.NewRequest("POST", "/join/"+code, nil))
	resp := decodeBody(t, w)
	if resp["ok"].(bool) || resp["error"] != "game already started" {
		t.Fatalf("expected already-started rejection, got %v", resp)
	}
}

func TestJoinUnknownCode(t *testing.T) {
	h := newTestHandler()
	w := httptest.NewRecorder()
	h.HandleJoin(w, httptest.NewRequest("POST", "/join/NOPE42", nil))
	resp := decodeBody(t, w)
	if resp["ok"].(bool) || resp["error"] != "game not found" {
		t.Fatalf("expected not-found rejection, got %v", resp)
	}
}

func TestMoveFlow(t *testing.T) {
	h := newTestHandler()
	code := createGame(t, h)
	joinGame(t, h, code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/move/"+code, strings.NewReader(`{"player":1,"x":0,"y":0}`))
	h.HandleMove(w, req)
	resp := decodeBody(t, w)
	if !resp["ok"].(bool) {
		t.Fatalf("expected move to succeed: %v", resp)
	}
	result := resp["result"].(string)
	newPlayer := int(resp["newPlayer"].(float64))
	if result == "miss" && newPlayer != 2 {
		t.Fatalf("miss must pass the turn, got player %d", newPlayer)
	}
	if result != "miss" && newPlayer != 1 {
		t.Fatalf("hit must keep the turn, got player %d", newPlayer)
	}
}

func TestMoveUnknownCode(t *testing.T) {
	h := newTestHandler()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/move/NOPE42", strings.NewReader(`{"player":1,"x":0,"y":0}`))
	h.HandleMove(w, req)
	resp := decodeBody(t, w)
	if resp["ok"].(bool) || resp["error"] != "game not found" {
		t.Fatalf("expected not-found rejection, got %v", resp)
	}
}

func TestMoveBadJSON(t *testing.T) {
	h := newTestHandler()
	code := createGame(t, h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/move/"+code, strings.NewReader(`{"player":`))
	h.HandleMove(w, req)
	if w.Code != 400 {
		t.Fatalf("expected 400 for bad json, got %d", w.Code)
	}
}

func TestMoveBeforeJoinRejected(t *testing.T) {
	h := newTestHandler()
	code := createGame(t, h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/move/"+code, strings.NewReader(`{"player":1,"x":0,"y":0}`))
	h.HandleMove(w, req)
	resp := decodeBody(t, w)
	if resp["ok"].(bool) || resp["error"] != "invalid move" {
		t.Fatalf("expected invalid-move rejection, got %v", resp)
	}
}

func TestMoveWrongPlayerRejected(t *testing.T) {
	h := newTestHandler()
	code := createGame(t, h)
	joinGame(t, h, code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/move/"+code, strings.NewReader(`{"player":2,"x":0,"y":0}`))
	h.HandleMove(w, req)
	resp := decodeBody(t, w)
	if resp["ok"].(bool) || resp["error"] != "invalid move" {
		t.Fatalf("expected invalid-move rejection, got %v", resp)
	}
}

func TestMoveInvalidPlayerNumber(t *testing.T) {
	h := newTestHandler()
	code := createGame(t, h)
	joinGame(t, h, code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/move/"+code, strings.NewReader(`{"player":3,"x":0,"y":0}`))
	h.HandleMove(w, req)
	if resp := decodeBody(t, w); resp["ok"].(bool) {
		t.Fatalf("expected rejection for player 3, got %v", resp)
	}
}

func TestEndIdempotentOverHTTP(t *testing.T) {
	h := newTestHandler()
	code := createGame(t, h)
	joinGame(t, h, code)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.HandleEnd(w, httptest.NewRequest("POST", "/end/"+code, nil))
		if resp := decodeBody(t, w); !resp["ok"].(bool) {
			t.Fatalf("end #%d failed: %v", i+1, resp)
		}
	}

	w := httptest.NewRecorder()
	h.HandlePoll(w, httptest.NewRequest("GET", fmt.Sprintf("/poll/%s?after=0", code), nil))
	resp := decodeBody(t, w)
	state := resp["state"].(map[string]any)
	if state["status"] != "finished" {
		t.Fatalf("expected finished, got %v", state["status"])
	}
	if got := len(state["events"].([]any)); got != 4 {
		t.Fatalf("expected 4 events after double end, got %d", got)
	}
}
