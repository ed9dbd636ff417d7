package service

import (
	"context"

	"github.com/virtumeet/room-coordinator/internal/domain"
	"github.com/virtumeet/room-coordinator/internal/hub"
)

// RoomService coordinates presence, signaling relay and chat broadcast
// for conference rooms.
type RoomService interface {
	// HandleJoinRoom admits a participant into a room and notifies the
	// members already present.
	HandleJoinRoom(ctx context.Context, c *hub.Client, msg *domain.JoinRoomMessage) error

	// HandleSignal relays a call-setup message to one participant in the
	// sender's room.
	HandleSignal(ctx context.Context, c *hub.Client, msg *domain.SignalMessage) error

	// HandleChat fans a chat text out to everyone in the sender's room.
	HandleChat(ctx context.Context, c *hub.Client, text string) error

	// HandleLeaveRoom handles an explicit leave.
	HandleLeaveRoom(ctx context.Context, c *hub.Client) error

	// HandleDisconnect handles a transport-level disconnect. Safe to call
	// after an explicit leave; cleanup runs at most once per session.
	HandleDisconnect(ctx context.Context, c *hub.Client) error

	// Roster returns the current membership snapshot of a room.
	Roster(roomID string) []domain.Member

	// OccupiedRooms returns the currently occupied rooms and their sizes.
	OccupiedRooms() map[string]int
}

// RoomDirectory confirms that a room identifier refers to a real event
// room. The event directory lives upstream; a nil directory means the
// coordinator trusts every room ID it is handed.
type RoomDirectory interface {
	RoomExists(ctx context.Context, roomID string) (bool, error)
}

// IdentityResolver supplies the display name for a join request, either
// from a session token or from the name the client announced.
type IdentityResolver interface {
	ResolveDisplayName(token, announced string) string
}
