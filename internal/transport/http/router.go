package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter builds the full HTTP surface: game creation, read-only
// introspection, and the WebSocket upgrade, wrapped in CORS with a
// wildcard origin since this service has no cookies or credentials to
// protect.
func NewRouter(gw *Gateway) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/games", gw.CreateGame).Methods(http.MethodPost)
	r.HandleFunc("/games/{gameID}", gw.GameDebug).Methods(http.MethodGet)
	r.HandleFunc("/games/{gameID}/pin", gw.GamePin).Methods(http.MethodGet)
	r.HandleFunc("/games/{gameID}/state", gw.GameState).Methods(http.MethodGet)
	r.HandleFunc("/games/{gameID}/ws", gw.ServeWS).Methods(http.MethodGet)

	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	return c.Handler(r)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
