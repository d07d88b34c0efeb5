// Package http is the HTTP/WebSocket gateway in front of internal/coordinator:
// it owns nothing about game state, only connection lifecycle and routing.
package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/leo-ars/cfhoot/internal/coordinator"
	"github.com/leo-ars/cfhoot/internal/pinindex"
	"github.com/rs/zerolog"
)

// Gateway wires HTTP requests to a coordinator.Manager, looking up the
// right per-game Coordinator by id for every request.
type Gateway struct {
	manager  *coordinator.Manager
	pins     pinindex.Index
	log      zerolog.Logger
	upgrader websocket.Upgrader
	connCfg  connectionConfig
}

func NewGateway(manager *coordinator.Manager, pins pinindex.Index, log zerolog.Logger) *Gateway {
	return &Gateway{
		manager: manager,
		pins:    pins,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		connCfg: defaultConnectionConfig(),
	}
}

const maxPINAttempts = 20

// CreateGame mints a game id, then mints and registers a collision-checked
// PIN before a Coordinator is constructed, so the Coordinator never has to
// invent a second, unregistered PIN.
func (g *Gateway) CreateGame(w http.ResponseWriter, r *http.Request) {
	gameID := uuid.New().String()

	var pin string
	for i := 0; i < maxPINAttempts; i++ {
		candidate := coordinator.GeneratePIN()
		ok, err := g.pins.RegisterIfAbsent(r.Context(), candidate, gameID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to register game pin")
			return
		}
		if ok {
			pin = candidate
			break
		}
	}
	if pin == "" {
		writeError(w, http.StatusServiceUnavailable, "failed to allocate a unique game pin")
		return
	}

	if _, err := g.manager.GetOrCreate(r.Context(), gameID, pin); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create game")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"gameId": gameID, "gamePin": pin})
}

// GamePin implements GET /games/{gameID}/pin.
func (g *Gateway) GamePin(w http.ResponseWriter, r *http.Request) {
	c, err := g.coordinatorFor(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	pin, _ := c.Snapshot()
	writeJSON(w, http.StatusOK, map[string]string{"gamePin": pin})
}

// GameState implements GET /games/{gameID}/state.
func (g *Gateway) GameState(w http.ResponseWriter, r *http.Request) {
	c, err := g.coordinatorFor(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	pin, phase := c.Snapshot()
	writeJSON(w, http.StatusOK, map[string]string{"gamePin": pin, "phase": string(phase)})
}

// GameDebug implements GET /games/{gameID}, a full-state introspection
// endpoint for operators, returning the same non-sensitive game_state the
// WebSocket broadcasts.
func (g *Gateway) GameDebug(w http.ResponseWriter, r *http.Request) {
	c, err := g.coordinatorFor(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c.FullState())
}

// ServeWS implements GET /games/{gameID}/ws?host={true|false}. No other
// query parameter is read; a returning player identifies itself with a
// player_rejoin message after the upgrade.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	c, err := g.coordinatorFor(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	isHost := r.URL.Query().Get("host") == "true"

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Debug().Err(err).Msg("ws upgrade failed")
		return
	}

	sessionID := uuid.New().String()
	wsConn := newWSConnection(conn, g.connCfg, g.log)
	go wsConn.writePump()

	c.Admit(sessionID, isHost, wsConn)

	wsConn.readPump(
		func(raw []byte) { c.HandleMessage(sessionID, raw) },
		func() { c.Disconnect(sessionID) },
	)
}

func (g *Gateway) coordinatorFor(r *http.Request) (*coordinator.Coordinator, error) {
	gameID := mux.Vars(r)["gameID"]
	return g.manager.GetOrCreate(r.Context(), gameID, "")
}
