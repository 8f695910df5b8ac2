// Package room tracks which connections are currently signaling for
// which session. Rooms are created lazily on the first successful join
// and garbage-collected when the last member leaves.
package room

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ANANDU-2000/PeerLearningPlatform/internal/metrics"
	"github.com/ANANDU-2000/PeerLearningPlatform/internal/session"
	"github.com/ANANDU-2000/PeerLearningPlatform/pkg/types"
)

// Room is the set of connections currently signaling for one session.
// Membership is guarded by the registry's mutex; the session record is
// immutable after creation.
type Room struct {
	sessionID string
	session   *types.Session
	members   map[string]*Member // ConnID -> Member
}

// SessionID returns the room's session identifier.
func (r *Room) SessionID() string {
	return r.sessionID
}

// Session returns the session record the room was opened for.
func (r *Room) Session() *types.Session {
	return r.session
}

// Registry is the only cross-connection shared mutable state in the
// service. A single RWMutex guards the room map and every member set;
// broadcast fan-out reads a snapshot taken under the read lock and
// sends outside it, so one slow peer never blocks the others.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	sessions *session.Manager
}

// NewRegistry creates an empty room registry.
func NewRegistry(sessions *session.Manager) *Registry {
	return &Registry{
		rooms:    make(map[string]*Room),
		sessions: sessions,
	}
}

// Join adds the member to the session's room, creating the room on the
// first join. The session must exist and be joinable in the external
// store; otherwise no room is created and the lookup error is returned.
// Arrival announcements go both ways: existing members learn about the
// newcomer, and the newcomer learns about each existing member, so
// concurrently joining peers always discover each other. The member
// itself never receives its own announcement.
func (reg *Registry) Join(ctx context.Context, sessionID string, m *Member) (*Room, error) {
	sess, err := reg.sessions.Joinable(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	reg.mu.Lock()
	room, ok := reg.rooms[sessionID]
	if !ok {
		room = &Room{
			sessionID: sessionID,
			session:   sess,
			members:   make(map[string]*Member),
		}
		reg.rooms[sessionID] = room
		metrics.ActiveRooms.Inc()
	}

	// A ConnID is a fresh UUID per connection, so a collision means the
	// same connection joined twice; the old entry is replaced and its
	// transport closed away from the lock.
	if existing, ok := room.members[m.ConnID]; ok && existing != m {
		go func() { _ = existing.Conn.Close() }()
	}
	room.members[m.ConnID] = m

	peers := room.peersOf(m.ConnID)
	reg.mu.Unlock()

	log.Info().
		Str("module", "room").
		Str("session_id", sessionID).
		Str("user_id", m.UserID).
		Str("role", m.Role).
		Int("peers", len(peers)).
		Msg("member joined room")

	joined := types.UserJoinedEvent{
		Type:     types.EventUserJoined,
		UserID:   m.UserID,
		UserName: m.UserName,
		IsMentor: m.IsMentor(),
	}
	for _, peer := range peers {
		deliver(peer, joined)
		deliver(m, types.UserJoinedEvent{
			Type:     types.EventUserJoined,
			UserID:   peer.UserID,
			UserName: peer.UserName,
			IsMentor: peer.IsMentor(),
		})
	}

	return room, nil
}

// Leave removes the member from its room and announces the departure to
// the remaining members. Calling it again for the same member is a
// no-op, so concurrent disconnect and explicit leave produce exactly one
// removal and one announcement. The room is destroyed when its last
// member leaves.
func (reg *Registry) Leave(room *Room, m *Member) {
	reg.mu.Lock()
	current, ok := room.members[m.ConnID]
	if !ok || current != m {
		reg.mu.Unlock()
		return
	}
	delete(room.members, m.ConnID)

	if len(room.members) == 0 {
		delete(reg.rooms, room.sessionID)
		metrics.ActiveRooms.Dec()
	}
	peers := room.peersOf(m.ConnID)
	reg.mu.Unlock()

	log.Info().
		Str("module", "room").
		Str("session_id", room.sessionID).
		Str("user_id", m.UserID).
		Int("remaining", len(peers)).
		Msg("member left room")

	left := types.UserLeftEvent{
		Type:     types.EventUserLeft,
		UserID:   m.UserID,
		UserName: m.UserName,
	}
	for _, peer := range peers {
		deliver(peer, left)
	}
}

// Broadcast sends an event to every room member except the one holding
// exceptConnID. Delivery failures are contained to the failing peer.
func (reg *Registry) Broadcast(room *Room, exceptConnID string, v interface{}) {
	reg.mu.RLock()
	peers := room.peersOf(exceptConnID)
	reg.mu.RUnlock()

	for _, peer := range peers {
		deliver(peer, v)
	}
}

// Participants returns the member snapshot for a session, or nil when no
// room is open for it.
func (reg *Registry) Participants(sessionID string) []types.Participant {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	room, ok := reg.rooms[sessionID]
	if !ok {
		return nil
	}

	participants := make([]types.Participant, 0, len(room.members))
	for _, m := range room.members {
		participants = append(participants, m.Participant())
	}
	return participants
}

// MemberCount returns the room's current size.
func (reg *Registry) MemberCount(room *Room) int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(room.members)
}

// Stats returns registry counters for the stats API.
func (reg *Registry) Stats() map[string]int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	total := 0
	for _, room := range reg.rooms {
		total += len(room.members)
	}
	return map[string]int{
		"active_rooms":      len(reg.rooms),
		"total_connections": total,
	}
}

// peersOf returns every member except the one holding connID. Caller
// must hold the registry lock; the returned slice is a snapshot safe to
// iterate after release.
func (r *Room) peersOf(connID string) []*Member {
	peers := make([]*Member, 0, len(r.members))
	for id, m := range r.members {
		if id == connID {
			continue
		}
		peers = append(peers, m)
	}
	return peers
}

// deliver sends one event to one member, skipping the peer on failure.
func deliver(m *Member, v interface{}) {
	if err := m.Conn.WriteJSON(v); err != nil {
		metrics.DeliveryErrors.Inc()
		log.Warn().
			Err(err).
			Str("module", "room").
			Str("user_id", m.UserID).
			Msg("event delivery failed, skipping peer")
	}
}
