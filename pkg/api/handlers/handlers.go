package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/blastarena/server/pkg/log"
	"github.com/blastarena/server/pkg/repositories"
	"github.com/blastarena/server/pkg/version"
)

// HandleListRooms serves the persisted mirror of joinable rooms. It
// reads from the repository, never from live game state, so a slow
// caller cannot touch the game loop.
func HandleListRooms(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms, err := repository.ListActiveRooms(r.Context())
		if err != nil {
			log.Error("failed to list rooms: %v", err)
			http.Error(w, "Failed to list rooms", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if err := json.NewEncoder(w).Encode(rooms); err != nil {
			log.Error("failed to encode rooms: %v", err)
			http.Error(w, "Failed to encode rooms", http.StatusInternalServerError)
			return
		}
	}
}

// HandleGetRoom serves one persisted room by its shareable code.
func HandleGetRoom(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := mux.Vars(r)["code"]
		room, err := repository.GetRoomByCode(r.Context(), code)
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "Room not found", http.StatusNotFound)
				return
			}
			log.Error("failed to get room %s: %v", code, err)
			http.Error(w, "Failed to get room", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if err := json.NewEncoder(w).Encode(room); err != nil {
			log.Error("failed to encode room: %v", err)
			http.Error(w, "Failed to encode room", http.StatusInternalServerError)
			return
		}
	}
}

// HandleHealthz reports liveness.
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}

// HandleVersion reports the build version.
func HandleVersion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"version": version.Get()})
	}
}
