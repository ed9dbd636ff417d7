package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"github.com/virtumeet/room-coordinator/internal/domain"
	"github.com/virtumeet/room-coordinator/internal/hub"
	"github.com/virtumeet/room-coordinator/internal/registry"
	"github.com/virtumeet/room-coordinator/internal/service"
)

func newTestServer(t *testing.T) (*httptest.Server, service.RoomService) {
	t.Helper()

	h := hub.NewHub(hub.Config{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 65536,
	})
	go h.Run()

	svc := service.NewRoomService(h, registry.NewRegistry(), nil, nil)

	router := mux.NewRouter()
	router.HandleFunc("/ws", NewWSHandler(h, svc).HandleWebSocket)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, svc
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, v interface{}) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(v))
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame map[string]interface{}
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func joinRoom(t *testing.T, conn *websocket.Conn, roomID, participantID, displayName string) map[string]interface{} {
	t.Helper()
	send(t, conn, &domain.JoinRoomMessage{
		Type:          domain.MsgTypeJoinRoom,
		RoomID:        roomID,
		ParticipantID: participantID,
		DisplayName:   displayName,
	})
	frame := readFrame(t, conn)
	require.Equal(t, domain.MsgTypeRoomJoined, frame["type"])
	return frame
}

func TestWS_PingPong(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, map[string]string{"type": domain.MsgTypePing})
	frame := readFrame(t, conn)
	require.Equal(t, domain.MsgTypePong, frame["type"])
}

func TestWS_UnknownTypeRejectedChannelStaysOpen(t *testing.T) {
	req := require.New(t)
	ts, _ := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, map[string]string{"type": "no-such-event"})
	frame := readFrame(t, conn)
	req.Equal(domain.MsgTypeError, frame["type"])
	req.Equal(domain.ErrCodeBadRequest, frame["code"])

	// Still usable afterwards.
	send(t, conn, map[string]string{"type": domain.MsgTypePing})
	frame = readFrame(t, conn)
	req.Equal(domain.MsgTypePong, frame["type"])
}

func TestWS_MalformedJSONRejected(t *testing.T) {
	req := require.New(t)
	ts, _ := newTestServer(t)
	conn := dial(t, ts)

	req.NoError(conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	frame := readFrame(t, conn)
	req.Equal(domain.MsgTypeError, frame["type"])
}

func TestWS_ConferenceLifecycle(t *testing.T) {
	req := require.New(t)
	ts, svc := newTestServer(t)

	// A joins an empty room.
	connA := dial(t, ts)
	frame := joinRoom(t, connA, "evt42", "a", "Alice")
	req.Empty(frame["members"])

	// B joins; B sees A in the roster, A is notified of B.
	connB := dial(t, ts)
	frame = joinRoom(t, connB, "evt42", "b", "Bob")
	members, _ := frame["members"].([]interface{})
	req.Len(members, 1)

	arrival := readFrame(t, connA)
	req.Equal(domain.MsgTypeUserConnected, arrival["type"])
	req.Equal("b", arrival["participant_id"])
	req.Equal("Bob", arrival["display_name"])

	// A invites B; the payload crosses verbatim with A's identity.
	payload := json.RawMessage(`{"sdp":"v=0 offer"}`)
	send(t, connA, &domain.SignalMessage{Type: domain.MsgTypeCallInvite, To: "b", Payload: payload})
	invite := readFrame(t, connB)
	req.Equal(domain.MsgTypeCallInvite, invite["type"])
	req.Equal("a", invite["from"])

	// B answers back to A.
	send(t, connB, &domain.SignalMessage{Type: domain.MsgTypeCallAnswer, To: "a", Payload: json.RawMessage(`{"sdp":"v=0 answer"}`)})
	answer := readFrame(t, connA)
	req.Equal(domain.MsgTypeCallAnswer, answer["type"])
	req.Equal("b", answer["from"])

	// A chats; both A and B receive the fan-out.
	send(t, connA, &domain.ChatMessage{Type: domain.MsgTypeChat, Text: "hello"})
	for _, conn := range []*websocket.Conn{connA, connB} {
		chat := readFrame(t, conn)
		req.Equal(domain.MsgTypeChatDelivered, chat["type"])
		req.Equal("hello", chat["text"])
		req.Equal("Alice", chat["display_name"])
	}

	// B drops the transport; A hears the departure and remains alone.
	connB.Close()
	departure := readFrame(t, connA)
	req.Equal(domain.MsgTypeUserDisconnected, departure["type"])
	req.Equal("b", departure["participant_id"])

	require.Eventually(t, func() bool {
		roster := svc.Roster("evt42")
		return len(roster) == 1 && roster[0].ParticipantID == "a"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWS_JoinWithoutRoomIDRejected(t *testing.T) {
	req := require.New(t)
	ts, svc := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, &domain.JoinRoomMessage{Type: domain.MsgTypeJoinRoom, ParticipantID: "a", DisplayName: "Alice"})
	frame := readFrame(t, conn)
	req.Equal(domain.MsgTypeError, frame["type"])
	req.Equal(domain.ErrCodeBadRequest, frame["code"])
	req.Empty(svc.OccupiedRooms())
}
