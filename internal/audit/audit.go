package audit

import (
	"context"

	"github.com/virtumeet/room-coordinator/pkg/log"
)

// Audit actions for the room coordinator.
const (
	ActionJoinRoom   = "room.join"
	ActionLeaveRoom  = "room.leave"
	ActionDisconnect = "room.disconnect"
	ActionChat       = "room.chat"
)

// Field constants for audit entries.
const (
	FieldAction = "action"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action, participantID, roomID, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldParticipantID, participantID).
		Str(log.FieldRoomID, roomID).
		Msg(msg)
}
