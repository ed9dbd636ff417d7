package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"github.com/virtumeet/room-coordinator/internal/domain"
	"github.com/virtumeet/room-coordinator/internal/hub"
	"github.com/virtumeet/room-coordinator/internal/registry"
	"github.com/virtumeet/room-coordinator/internal/service"
)

func newAPIServer(t *testing.T) (*httptest.Server, service.RoomService, *hub.Hub) {
	t.Helper()

	h := hub.NewHub(hub.Config{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 65536,
	})
	go h.Run()

	svc := service.NewRoomService(h, registry.NewRegistry(), nil, nil)
	api := NewHTTPHandler(svc)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/rooms/{room_id}/roster", api.GetRoster).Methods("GET")
	router.HandleFunc("/api/v1/rooms", api.GetRooms).Methods("GET")
	router.HandleFunc("/health", api.HealthCheck).Methods("GET")

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, svc, h
}

func getJSON(t *testing.T, url string, out interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHTTP_Health(t *testing.T) {
	ts, _, _ := newAPIServer(t)

	var body map[string]string
	getJSON(t, ts.URL+"/health", &body)
	require.Equal(t, "ok", body["status"])
}

func TestHTTP_RosterAndRooms(t *testing.T) {
	req := require.New(t)
	ts, svc, h := newAPIServer(t)

	// Empty room: an empty roster, not an error.
	var roster RosterResponse
	getJSON(t, ts.URL+"/api/v1/rooms/evt42/roster", &roster)
	req.Equal("evt42", roster.RoomID)
	req.Zero(roster.Total)

	// Seed a participant through the service.
	c := hub.NewClient("conn-a", h, nil)
	h.Register(c)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	req.NoError(svc.HandleJoinRoom(context.Background(), c, &domain.JoinRoomMessage{
		Type:          domain.MsgTypeJoinRoom,
		RoomID:        "evt42",
		ParticipantID: "a",
		DisplayName:   "Alice",
	}))

	getJSON(t, ts.URL+"/api/v1/rooms/evt42/roster", &roster)
	req.Equal(1, roster.Total)
	req.Equal("a", roster.Members[0].ParticipantID)
	req.Equal("Alice", roster.Members[0].DisplayName)

	var rooms RoomsResponse
	getJSON(t, ts.URL+"/api/v1/rooms", &rooms)
	req.Equal(1, rooms.Total)
	req.Equal(1, rooms.Rooms["evt42"])
}
