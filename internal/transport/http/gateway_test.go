package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/leo-ars/cfhoot/internal/coordinator"
	"github.com/leo-ars/cfhoot/internal/domain"
	"github.com/leo-ars/cfhoot/internal/infra/memory"
	"github.com/leo-ars/cfhoot/internal/pinindex"
	"github.com/rs/zerolog"
)

func testServer(t *testing.T) (*httptest.Server, *pinindex.MemoryIndex) {
	t.Helper()
	store := memory.NewStore()
	manager := coordinator.NewManager(store, coordinator.NewRealClock(), zerolog.Nop(), nil)
	pins := pinindex.NewMemoryIndex()
	gw := NewGateway(manager, pins, zerolog.Nop())
	srv := httptest.NewServer(NewRouter(gw))
	t.Cleanup(srv.Close)
	return srv, pins
}

func TestCreateGameAllocatesUniquePin(t *testing.T) {
	srv, pins := testServer(t)

	resp, err := http.Post(srv.URL+"/games", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var body struct {
		GameID  string `json:"gameId"`
		GamePin string `json:"gamePin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.GamePin) != 6 {
		t.Fatalf("expected a 6-digit pin, got %q", body.GamePin)
	}

	gameID, err := pins.Resolve(context.Background(), body.GamePin)
	if err != nil || gameID != body.GameID {
		t.Fatalf("expected pin to resolve to %q, got %q err=%v", body.GameID, gameID, err)
	}
}

func TestGamePinAndStateEndpoints(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Post(srv.URL+"/games", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	var created struct {
		GameID  string `json:"gameId"`
		GamePin string `json:"gamePin"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	pinResp, err := http.Get(srv.URL + "/games/" + created.GameID + "/pin")
	if err != nil {
		t.Fatalf("get pin: %v", err)
	}
	defer pinResp.Body.Close()
	var pinBody struct {
		GamePin string `json:"gamePin"`
	}
	_ = json.NewDecoder(pinResp.Body).Decode(&pinBody)
	if pinBody.GamePin != created.GamePin {
		t.Fatalf("expected pin %q, got %q", created.GamePin, pinBody.GamePin)
	}

	stateResp, err := http.Get(srv.URL + "/games/" + created.GameID + "/state")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	defer stateResp.Body.Close()
	var stateBody struct {
		Phase string `json:"phase"`
	}
	_ = json.NewDecoder(stateResp.Body).Decode(&stateBody)
	if stateBody.Phase != string(domain.PhaseLobby) {
		t.Fatalf("expected lobby phase, got %q", stateBody.Phase)
	}
}

func TestGameDebugEndpointReturnsFullState(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Post(srv.URL+"/games", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	var created struct {
		GameID  string `json:"gameId"`
		GamePin string `json:"gamePin"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	debugResp, err := http.Get(srv.URL + "/games/" + created.GameID)
	if err != nil {
		t.Fatalf("get debug: %v", err)
	}
	defer debugResp.Body.Close()
	if debugResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", debugResp.StatusCode)
	}
	var state domain.GameState
	if err := json.NewDecoder(debugResp.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.GamePin != created.GamePin || state.Phase != domain.PhaseLobby {
		t.Fatalf("expected pin %q in lobby, got %+v", created.GamePin, state)
	}
}

func dialWS(t *testing.T, srv *httptest.Server, gameID string, host bool) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/games/" + gameID + "/ws"
	if host {
		url += "?host=true"
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readUntilType(t *testing.T, conn *websocket.Conn, msgType string) json.RawMessage {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		var env struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("read: %v", err)
		}
		if env.Type == msgType {
			return env.Payload
		}
	}
	t.Fatalf("never saw message type %q", msgType)
	return nil
}

func TestWebSocketHostCreateQuizAndPlayerJoin(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Post(srv.URL+"/games", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	var created struct {
		GameID string `json:"gameId"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	host := dialWS(t, srv, created.GameID, true)
	readUntilType(t, host, "game_state")

	quiz := domain.Quiz{
		ID:    "quiz-1",
		Title: "Geography",
		Questions: []domain.Question{
			{
				ID:             "q1",
				Text:           "Capital of France?",
				Answers:        [4]string{"Paris", "Rome", "Berlin", "Madrid"},
				CorrectIndices: []int{0},
				TimerSeconds:   20,
			},
		},
	}
	sendMsg(t, host, "host_create_quiz", map[string]any{"quiz": quiz})
	readUntilType(t, host, "game_state")

	player := dialWS(t, srv, created.GameID, false)
	readUntilType(t, player, "game_state")
	sendMsg(t, player, "player_join", map[string]string{"nickname": "Alice"})

	payload := readUntilType(t, player, "game_state")
	var wrapper struct {
		State domain.GameState `json:"state"`
	}
	if err := json.Unmarshal(payload, &wrapper); err != nil {
		t.Fatalf("unmarshal game_state: %v", err)
	}
	found := false
	for _, p := range wrapper.State.Players {
		if p.Nickname == "Alice" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Alice to appear in roster: %+v", wrapper.State.Players)
	}
}

func sendMsg(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	env := struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}{Type: msgType, Payload: raw}
	buf, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, bytes.TrimSpace(buf)); err != nil {
		t.Fatalf("write: %v", err)
	}
}
