package domain

import "encoding/json"

// WebSocket message types from client. The names match the reference
// wire protocol so existing conference clients keep working.
const (
	MsgTypeJoinRoom      = "join-room"
	MsgTypeLeaveRoom     = "leave-room"
	MsgTypeChat          = "message"
	MsgTypeCallInvite    = "call-invite"
	MsgTypeCallAnswer    = "call-answer"
	MsgTypeCallCandidate = "call-candidate"
	MsgTypePing          = "ping"
)

// WebSocket message types to client.
const (
	MsgTypeRoomJoined       = "room-joined"
	MsgTypeUserConnected    = "user-connected"
	MsgTypeUserDisconnected = "user-disconnected"
	MsgTypeChatDelivered    = "createMessage"
	MsgTypeError            = "error"
	MsgTypePong             = "pong"
)

// Error codes
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeNotInRoom     = "NOT_IN_ROOM"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// BaseMessage is the base structure for all WebSocket messages.
type BaseMessage struct {
	Type string `json:"type"`
}

// Client -> Server messages

// JoinRoomMessage announces a participant joining a room.
type JoinRoomMessage struct {
	Type          string `json:"type"`
	RoomID        string `json:"room_id"`
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	Token         string `json:"token,omitempty"` // optional session token from the identity provider
}

// LeaveRoomMessage is an explicit leave; transport close has the same effect.
type LeaveRoomMessage struct {
	Type string `json:"type"`
}

// ChatMessage carries one chat text from a participant.
type ChatMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SignalMessage is a call-setup message addressed to exactly one
// participant in the sender's room. The payload is relayed verbatim;
// the server never interprets it.
type SignalMessage struct {
	Type    string          `json:"type"`
	To      string          `json:"to"`
	From    string          `json:"from,omitempty"` // filled in by the server on relay
	Payload json.RawMessage `json:"payload"`
}

// Server -> Client messages

// Member is one entry in a room roster.
type Member struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
}

// RoomJoinedMessage confirms a join and enumerates the members already
// present, so the newcomer knows which peers will be calling it.
type RoomJoinedMessage struct {
	Type          string   `json:"type"`
	RoomID        string   `json:"room_id"`
	ParticipantID string   `json:"participant_id"`
	Members       []Member `json:"members"`
}

// PresenceMessage notifies remaining members of an arrival or departure.
type PresenceMessage struct {
	Type          string `json:"type"`
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
}

// ChatDeliveredMessage is the room-wide fan-out of one chat text.
type ChatDeliveredMessage struct {
	Type        string `json:"type"`
	Text        string `json:"text"`
	DisplayName string `json:"display_name"`
}

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorMessage creates a new error message.
func NewErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		Type:    MsgTypeError,
		Code:    code,
		Message: message,
	}
}
