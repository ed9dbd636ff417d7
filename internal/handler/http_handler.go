package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/virtumeet/room-coordinator/internal/domain"
	"github.com/virtumeet/room-coordinator/internal/service"
)

// HTTPHandler handles HTTP API requests for room state.
type HTTPHandler struct {
	service service.RoomService
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(svc service.RoomService) *HTTPHandler {
	return &HTTPHandler{
		service: svc,
	}
}

// RosterResponse is the API response for roster queries.
type RosterResponse struct {
	RoomID  string          `json:"room_id"`
	Members []domain.Member `json:"members"`
	Total   int             `json:"total"`
}

// RoomsResponse lists the currently occupied rooms.
type RoomsResponse struct {
	Rooms map[string]int `json:"rooms"`
	Total int            `json:"total"`
}

// GetRoster handles GET /api/v1/rooms/{room_id}/roster
func (h *HTTPHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	roomID := vars["room_id"]

	if roomID == "" {
		http.Error(w, "room_id is required", http.StatusBadRequest)
		return
	}

	members := h.service.Roster(roomID)
	response := RosterResponse{
		RoomID:  roomID,
		Members: members,
		Total:   len(members),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetRooms handles GET /api/v1/rooms
func (h *HTTPHandler) GetRooms(w http.ResponseWriter, r *http.Request) {
	rooms := h.service.OccupiedRooms()
	response := RoomsResponse{
		Rooms: rooms,
		Total: len(rooms),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HealthCheck handles GET /health
func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
