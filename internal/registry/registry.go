package registry

import "sync"

// Member is one participant's registry entry. ClientID is the
// transport-assigned connection ID of the owning session, used to
// route outbound frames.
type Member struct {
	ParticipantID string
	DisplayName   string
	ClientID      string
}

// Registry maps room IDs to the set of currently present participants.
// Rooms are created implicitly on first join and dropped when the last
// participant leaves; absence of an entry is the terminal state.
//
// The registry is the only shared mutable state in the coordinator, so
// each operation holds its own lock and never calls out while holding it.
type Registry struct {
	rooms map[string]map[string]Member // roomID -> participantID -> member
	mu    sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[string]Member),
	}
}

// Join adds the participant to the room, creating the room if absent.
// Joining twice with the same participant ID is a no-op that keeps the
// original entry; it returns false in that case.
func (r *Registry) Join(roomID string, m Member) bool {
	_, added := r.JoinAndOthers(roomID, m)
	return added
}

// JoinAndOthers inserts the member and returns the membership as it
// stood immediately before the insert, under one critical section. Two
// concurrent joins therefore always serialize: the later one's snapshot
// contains the earlier one, so the pair can never miss each other. The
// snapshot excludes the joining participant ID; added is false when
// that ID was already present and the original entry was kept.
func (r *Registry) JoinAndOthers(roomID string, m Member) (others []Member, added bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		room = make(map[string]Member)
		r.rooms[roomID] = room
	}

	others = make([]Member, 0, len(room))
	for id, existing := range room {
		if id == m.ParticipantID {
			continue
		}
		others = append(others, existing)
	}

	if _, present := room[m.ParticipantID]; present {
		return others, false
	}
	room[m.ParticipantID] = m
	return others, true
}

// Leave removes the participant from the room. A leave for an unknown
// room or participant is tolerated as a no-op; it returns whether an
// entry was actually removed. The room entry is dropped when it empties.
func (r *Registry) Leave(roomID, participantID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return false
	}
	if _, present := room[participantID]; !present {
		return false
	}
	delete(room, participantID)
	if len(room) == 0 {
		delete(r.rooms, roomID)
	}
	return true
}

// MembersOf returns a snapshot of the room's membership. No ordering is
// guaranteed beyond every currently present participant exactly once.
func (r *Registry) MembersOf(roomID string) []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	members := make([]Member, 0, len(room))
	for _, m := range room {
		members = append(members, m)
	}
	return members
}

// Resolve looks up one participant within a room, for relay targeting.
func (r *Registry) Resolve(roomID, participantID string) (Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return Member{}, false
	}
	m, present := room[participantID]
	return m, present
}

// Rooms returns the IDs of currently occupied rooms with their sizes.
func (r *Registry) Rooms() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int, len(r.rooms))
	for id, room := range r.rooms {
		out[id] = len(room)
	}
	return out
}
