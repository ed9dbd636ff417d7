package service

import (
	"context"

	"github.com/virtumeet/room-coordinator/internal/audit"
	"github.com/virtumeet/room-coordinator/internal/domain"
	"github.com/virtumeet/room-coordinator/internal/hub"
	"github.com/virtumeet/room-coordinator/internal/registry"
	pkglog "github.com/virtumeet/room-coordinator/pkg/log"
)

type roomService struct {
	hub       *hub.Hub
	registry  *registry.Registry
	directory RoomDirectory
	identity  IdentityResolver
}

// NewRoomService creates a new RoomService instance. directory may be
// nil when room IDs arrive pre-validated from upstream.
func NewRoomService(h *hub.Hub, reg *registry.Registry, directory RoomDirectory, identity IdentityResolver) RoomService {
	return &roomService{
		hub:       h,
		registry:  reg,
		directory: directory,
		identity:  identity,
	}
}

func (s *roomService) HandleJoinRoom(ctx context.Context, c *hub.Client, msg *domain.JoinRoomMessage) error {
	l := pkglog.Ctx(ctx)

	// A malformed join is rejected without touching any state; the
	// channel stays open for a retry.
	if msg.RoomID == "" || msg.ParticipantID == "" {
		return c.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "room_id and participant_id are required"))
	}

	if s.directory != nil {
		exists, err := s.directory.RoomExists(ctx, msg.RoomID)
		if err != nil {
			l.Error().Err(err).Str(pkglog.FieldRoomID, msg.RoomID).Msg("event directory lookup failed")
			return c.SendMessage(domain.NewErrorMessage(domain.ErrCodeInternalError, "failed to resolve room"))
		}
		if !exists {
			return c.SendMessage(domain.NewErrorMessage(domain.ErrCodeNotFound, "unknown room"))
		}
	}

	displayName := msg.DisplayName
	if s.identity != nil {
		displayName = s.identity.ResolveDisplayName(msg.Token, msg.DisplayName)
	}

	// One room membership per session, for the session's lifetime.
	if !c.Session.JoinRoom(msg.RoomID, msg.ParticipantID, displayName) {
		return c.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "session already joined a room"))
	}

	// Snapshot and insert are one critical section, so two participants
	// joining the same room at once always learn of each other: one via
	// its roster, the other via the arrival fan-out below.
	others, added := s.registry.JoinAndOthers(msg.RoomID, registry.Member{
		ParticipantID: msg.ParticipantID,
		DisplayName:   displayName,
		ClientID:      c.ID,
	})

	roster := make([]domain.Member, 0, len(others))
	for _, m := range others {
		roster = append(roster, domain.Member{ParticipantID: m.ParticipantID, DisplayName: m.DisplayName})
	}

	if err := c.SendMessage(&domain.RoomJoinedMessage{
		Type:          domain.MsgTypeRoomJoined,
		RoomID:        msg.RoomID,
		ParticipantID: msg.ParticipantID,
		Members:       roster,
	}); err != nil {
		return err
	}

	if !added {
		// Same participant ID is already present; membership is unchanged
		// and the existing members were notified the first time.
		l.Warn().
			Str(pkglog.FieldRoomID, msg.RoomID).
			Str(pkglog.FieldParticipantID, msg.ParticipantID).
			Msg("duplicate join ignored")
		return nil
	}

	arrival := &domain.PresenceMessage{
		Type:          domain.MsgTypeUserConnected,
		ParticipantID: msg.ParticipantID,
		DisplayName:   displayName,
	}
	for _, m := range others {
		s.hub.SendToClient(m.ClientID, arrival)
	}

	audit.Log(ctx, audit.ActionJoinRoom, msg.ParticipantID, msg.RoomID, "participant joined room")
	l.Info().
		Str(pkglog.FieldClientID, c.ID).
		Str(pkglog.FieldRoomID, msg.RoomID).
		Str(pkglog.FieldParticipantID, msg.ParticipantID).
		Str(pkglog.FieldDisplayName, displayName).
		Msg("participant joined")

	return nil
}

func (s *roomService) HandleSignal(ctx context.Context, c *hub.Client, msg *domain.SignalMessage) error {
	if msg.To == "" {
		return c.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "signal target is required"))
	}

	roomID := c.Session.CurrentRoom()
	if roomID == "" {
		return c.SendMessage(domain.NewErrorMessage(domain.ErrCodeNotInRoom, "join a room before signaling"))
	}

	target, ok := s.registry.Resolve(roomID, msg.To)
	if !ok {
		// The peer already left. A benign race, not an error.
		l := pkglog.Ctx(ctx)
		l.Debug().
			Str(pkglog.FieldRoomID, roomID).
			Str(pkglog.FieldParticipantID, msg.To).
			Str("kind", msg.Type).
			Msg("signal target absent, dropped")
		return nil
	}

	from, _ := c.Session.Identity()
	return s.hub.SendToClient(target.ClientID, &domain.SignalMessage{
		Type:    msg.Type,
		To:      msg.To,
		From:    from,
		Payload: msg.Payload,
	})
}

func (s *roomService) HandleChat(ctx context.Context, c *hub.Client, text string) error {
	roomID := c.Session.CurrentRoom()
	if roomID == "" {
		return c.SendMessage(domain.NewErrorMessage(domain.ErrCodeNotInRoom, "join a room before chatting"))
	}

	from, displayName := c.Session.Identity()

	// The fan-out includes the sender: the room sees one consistent
	// stream and clients do not render locally.
	delivered := &domain.ChatDeliveredMessage{
		Type:        domain.MsgTypeChatDelivered,
		Text:        text,
		DisplayName: displayName,
	}
	for _, m := range s.registry.MembersOf(roomID) {
		s.hub.SendToClient(m.ClientID, delivered)
	}

	audit.Log(ctx, audit.ActionChat, from, roomID, "chat message broadcast")
	return nil
}

func (s *roomService) HandleLeaveRoom(ctx context.Context, c *hub.Client) error {
	return s.leave(ctx, c, audit.ActionLeaveRoom)
}

func (s *roomService) HandleDisconnect(ctx context.Context, c *hub.Client) error {
	return s.leave(ctx, c, audit.ActionDisconnect)
}

// leave runs the PRESENT→ABSENT transition. The session's room state is
// cleared atomically, so a racing explicit leave and transport close
// produce exactly one removal and one departure notification.
func (s *roomService) leave(ctx context.Context, c *hub.Client, action string) error {
	roomID, participantID, displayName, ok := c.Session.LeaveRoom()
	if !ok {
		return nil
	}

	// A session whose join was absorbed as a duplicate does not own the
	// registry entry and must not evict the original on its way out.
	if m, owned := s.registry.Resolve(roomID, participantID); !owned || m.ClientID != c.ID {
		return nil
	}

	s.registry.Leave(roomID, participantID)

	departure := &domain.PresenceMessage{
		Type:          domain.MsgTypeUserDisconnected,
		ParticipantID: participantID,
		DisplayName:   displayName,
	}
	for _, m := range s.registry.MembersOf(roomID) {
		s.hub.SendToClient(m.ClientID, departure)
	}

	audit.Log(ctx, action, participantID, roomID, "participant left room")
	l := pkglog.Ctx(ctx)
	l.Info().
		Str(pkglog.FieldClientID, c.ID).
		Str(pkglog.FieldRoomID, roomID).
		Str(pkglog.FieldParticipantID, participantID).
		Msg("participant left")

	return nil
}

func (s *roomService) Roster(roomID string) []domain.Member {
	members := s.registry.MembersOf(roomID)
	roster := make([]domain.Member, 0, len(members))
	for _, m := range members {
		roster = append(roster, domain.Member{ParticipantID: m.ParticipantID, DisplayName: m.DisplayName})
	}
	return roster
}

func (s *roomService) OccupiedRooms() map[string]int {
	return s.registry.Rooms()
}
