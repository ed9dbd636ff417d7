package domain

import (
	"sync"
	"time"
)

// Session represents one participant's WebSocket session. A session
// owns at most one room membership for its lifetime; identity is fixed
// at join time.
type Session struct {
	ID        string
	CreatedAt time.Time

	participantID string
	displayName   string
	roomID        string
	mu            sync.RWMutex
}

// NewSession creates a new session with the given connection ID.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
	}
}

// JoinRoom records the room membership and identity. It returns false
// if the session already joined a room; a session joins at most once.
func (s *Session) JoinRoom(roomID, participantID, displayName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roomID != "" {
		return false
	}
	s.roomID = roomID
	s.participantID = participantID
	s.displayName = displayName
	return true
}

// LeaveRoom atomically clears the room membership and reports the
// identity that held it. The second caller gets ok=false, which is what
// makes a racing explicit leave and transport close fire cleanup
// exactly once.
func (s *Session) LeaveRoom() (roomID, participantID, displayName string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roomID == "" {
		return "", "", "", false
	}
	roomID, participantID, displayName = s.roomID, s.participantID, s.displayName
	s.roomID = ""
	return roomID, participantID, displayName, true
}

// CurrentRoom returns the joined room ID, or "" when absent.
func (s *Session) CurrentRoom() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roomID
}

// Identity returns the participant ID and display name captured at join.
func (s *Session) Identity() (participantID, displayName string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.participantID, s.displayName
}
