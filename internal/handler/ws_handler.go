package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/virtumeet/room-coordinator/internal/domain"
	"github.com/virtumeet/room-coordinator/internal/hub"
	"github.com/virtumeet/room-coordinator/internal/service"
	pkglog "github.com/virtumeet/room-coordinator/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // room access is authorized upstream
	},
}

// WSHandler handles WebSocket connections.
type WSHandler struct {
	hub     *hub.Hub
	service service.RoomService
}

// NewWSHandler creates a new WebSocket handler.
func NewWSHandler(h *hub.Hub, svc service.RoomService) *WSHandler {
	return &WSHandler{
		hub:     h,
		service: svc,
	}
}

// HandleWebSocket handles WebSocket upgrade and message routing.
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	l := pkglog.Ctx(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn)

	// Wired once per connection: transport loss and explicit leave share
	// the same cleanup path.
	client.SetDisconnectHandler(func(c *hub.Client) {
		ctx := context.Background()
		if err := h.service.HandleDisconnect(ctx, c); err != nil {
			l.Error().Err(err).Str(pkglog.FieldClientID, c.ID).Msg("disconnect handler error")
		}
	})

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleMessage)
}

func (h *WSHandler) handleMessage(client *hub.Client, message []byte) {
	l := pkglog.L()

	var base domain.BaseMessage
	if err := json.Unmarshal(message, &base); err != nil {
		client.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "invalid message format"))
		return
	}

	ctx := context.Background()

	switch base.Type {
	case domain.MsgTypeJoinRoom:
		var msg domain.JoinRoomMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			client.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "invalid join-room message"))
			return
		}
		if err := h.service.HandleJoinRoom(ctx, client, &msg); err != nil {
			l.Error().Err(err).Str(pkglog.FieldClientID, client.ID).Msg("join room failed")
		}

	case domain.MsgTypeCallInvite, domain.MsgTypeCallAnswer, domain.MsgTypeCallCandidate:
		var msg domain.SignalMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			client.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "invalid signal message"))
			return
		}
		if err := h.service.HandleSignal(ctx, client, &msg); err != nil {
			l.Error().Err(err).Str(pkglog.FieldClientID, client.ID).Msg("signal relay failed")
		}

	case domain.MsgTypeChat:
		var msg domain.ChatMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			client.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "invalid chat message"))
			return
		}
		if err := h.service.HandleChat(ctx, client, msg.Text); err != nil {
			l.Error().Err(err).Str(pkglog.FieldClientID, client.ID).Msg("chat broadcast failed")
		}

	case domain.MsgTypeLeaveRoom:
		if err := h.service.HandleLeaveRoom(ctx, client); err != nil {
			l.Error().Err(err).Str(pkglog.FieldClientID, client.ID).Msg("leave room failed")
		}

	case domain.MsgTypePing:
		client.SendMessage(map[string]string{"type": domain.MsgTypePong})

	default:
		client.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "unknown message type"))
	}
}
