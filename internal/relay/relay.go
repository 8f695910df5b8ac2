// Package relay validates inbound signaling messages and forwards them
// between room members. SDP and ICE payloads pass through opaque; the
// relay never interprets them. Messages from one connection are handled
// strictly in arrival order because each connection runs a single read
// loop.
package relay

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/ANANDU-2000/PeerLearningPlatform/internal/metrics"
	"github.com/ANANDU-2000/PeerLearningPlatform/internal/room"
	"github.com/ANANDU-2000/PeerLearningPlatform/pkg/types"
)

// Ponger settles a liveness probe. Implemented by the liveness monitor.
type Ponger interface {
	Pong(sentMillis int64)
}

// Relay dispatches decoded signal messages for connected members.
type Relay struct {
	registry *room.Registry
	limiter  *RateLimiter
}

// New creates a relay. messagesPerMinute caps each sender's rate;
// zero disables the cap.
func New(registry *room.Registry, messagesPerMinute int) *Relay {
	return &Relay{
		registry: registry,
		limiter:  NewRateLimiter(messagesPerMinute),
	}
}

// Handle processes one inbound frame from a member. It returns true
// when the connection should transition to Closed (voluntary leave);
// every other outcome, including validation failures, leaves the
// connection usable.
func (r *Relay) Handle(rm *room.Room, m *room.Member, mon Ponger, data []byte) bool {
	var msg types.SignalMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Warn().
			Err(err).
			Str("module", "relay").
			Str("user_id", m.UserID).
			Str("session_id", rm.SessionID()).
			Msg("undecodable payload")
		r.reject(m, "invalid message payload")
		return false
	}

	if !types.IsValidKind(msg.Type) {
		log.Warn().
			Str("module", "relay").
			Str("user_id", m.UserID).
			Str("kind", msg.Type).
			Msg("unknown message kind")
		r.reject(m, "unknown message type: "+msg.Type)
		return false
	}

	// Liveness traffic is exempt from the rate cap so a throttled
	// client is not misdetected as dead.
	switch msg.Type {
	case types.KindHeartbeat, types.KindPong, types.KindPing:
	default:
		if !r.limiter.Allow(m.UserID) {
			r.reject(m, "rate limit exceeded")
			return false
		}
	}

	metrics.MessagesRelayed.WithLabelValues(msg.Type).Inc()

	switch msg.Type {
	case types.KindJoin:
		// The room-wide arrival announcement already happened at
		// registry join time; only the sender needs the ack.
		r.send(m, types.JoinAckEvent{
			Type:      types.EventJoinAck,
			UserID:    m.UserID,
			SessionID: rm.SessionID(),
		})

	case types.KindOffer, types.KindAnswer, types.KindCandidate:
		r.handleSignal(rm, m, &msg)

	case types.KindChat:
		r.handleChat(rm, m, &msg)

	case types.KindRaiseHand:
		r.registry.Broadcast(rm, m.ConnID, types.RaiseHandEvent{
			Type:      types.EventRaiseHand,
			UserID:    m.UserID,
			UserName:  m.UserName,
			Timestamp: types.NowMillis(),
		})

	case types.KindConnectionError:
		log.Warn().
			Str("module", "relay").
			Str("user_id", m.UserID).
			Str("session_id", rm.SessionID()).
			Str("client_error", msg.Error).
			Msg("client reported connection error")
		r.registry.Broadcast(rm, m.ConnID, types.ConnectionErrorEvent{
			Type:      types.EventConnectionError,
			UserID:    m.UserID,
			Error:     msg.Error,
			Timestamp: types.NowMillis(),
		})

	case types.KindHeartbeat, types.KindPong:
		if mon != nil {
			mon.Pong(msg.Timestamp)
		}

	case types.KindPing:
		r.send(m, types.PongEvent{Type: types.EventPong, Timestamp: types.NowMillis()})

	case types.KindGetRoomState:
		// Answered to the requester only; peers see no traffic.
		r.send(m, types.RoomStateEvent{
			Type:         types.EventRoomState,
			Session:      rm.Session(),
			Participants: r.registry.Participants(rm.SessionID()),
		})

	case types.KindLeave:
		r.registry.Leave(rm, m)
		r.send(m, types.LeftEvent{Type: types.EventLeft})
		return true
	}

	return false
}

// handleSignal forwards an offer, answer or ICE candidate. The target
// field is required; the payload is opaque passthrough.
func (r *Relay) handleSignal(rm *room.Room, m *room.Member, msg *types.SignalMessage) {
	if msg.To == "" {
		r.reject(m, msg.Type+" requires to_user_id")
		return
	}

	event := types.SignalEvent{
		Type: msg.Type,
		From: m.UserID,
		To:   msg.To,
	}
	switch msg.Type {
	case types.KindCandidate:
		if len(msg.ICE) == 0 {
			r.reject(m, "candidate requires ice")
			return
		}
		event.ICE = msg.ICE
	default:
		if len(msg.SDP) == 0 {
			r.reject(m, msg.Type+" requires sdp")
			return
		}
		event.SDP = msg.SDP
	}

	r.registry.Broadcast(rm, m.ConnID, event)
}

// handleChat relays a chat message, truncating oversized bodies.
func (r *Relay) handleChat(rm *room.Room, m *room.Member, msg *types.SignalMessage) {
	if msg.Message == "" {
		r.reject(m, "chat requires a non-empty message")
		return
	}

	r.registry.Broadcast(rm, m.ConnID, types.ChatEvent{
		Type:      types.EventChat,
		Message:   types.TruncateChat(msg.Message),
		From:      m.UserID,
		FromName:  m.UserName,
		Timestamp: types.NowMillis(),
	})
}

// reject answers the sender with a typed error event. The connection
// stays open.
func (r *Relay) reject(m *room.Member, reason string) {
	metrics.ValidationErrors.Inc()
	r.send(m, types.NewError(reason))
}

func (r *Relay) send(m *room.Member, v interface{}) {
	if err := m.Conn.WriteJSON(v); err != nil {
		metrics.DeliveryErrors.Inc()
		log.Warn().
			Err(err).
			Str("module", "relay").
			Str("user_id", m.UserID).
			Msg("direct send failed")
	}
}
