// internal/handlers/rooms.go
package handlers

import (
	"encoding/json"
	"net/http"
)

// ListRoomsHandler returns the open-rooms directory as JSON. The same data is
// pushed over the websocket; this endpoint exists for polling clients and
// debugging.
func ListRoomsHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"rooms": s.Rooms.ListOpenRooms(),
		})
	}
}

// HealthHandler is a trivial liveness probe.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
