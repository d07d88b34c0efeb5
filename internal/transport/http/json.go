package http

import (
	"encoding/json"
	"net/http"
)

// writeJSON and writeError mirror rkrmr33-quickwiz's handler pattern
// (Content-Type header plus json.NewEncoder(w).Encode) rather than
// introducing a response-rendering library the rest of the corpus doesn't use.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
