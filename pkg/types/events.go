package types

import (
	"encoding/json"
	"time"
)

// Outbound event payloads. Every outbound frame encodes exactly one of
// these; Type is always one of the Event* constants.

// JoinAckEvent confirms a join to the sender only. The room-wide
// announcement is UserJoinedEvent, emitted at registry join time.
type JoinAckEvent struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

// UserJoinedEvent announces an arrival to the other room members.
type UserJoinedEvent struct {
	Type     string `json:"type"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	IsMentor bool   `json:"is_mentor"`
}

// UserLeftEvent announces a departure to the remaining room members.
type UserLeftEvent struct {
	Type     string `json:"type"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

// SignalEvent carries a forwarded offer, answer or ICE candidate.
// Exactly one of SDP or ICE is set depending on Type.
type SignalEvent struct {
	Type string          `json:"type"`
	SDP  json.RawMessage `json:"sdp,omitempty"`
	ICE  json.RawMessage `json:"ice,omitempty"`
	From string          `json:"from"`
	To   string          `json:"to"`
}

// ChatEvent carries a relayed chat message. Message is already truncated
// to ChatMaxLen by the relay.
type ChatEvent struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	From      string `json:"from"`
	FromName  string `json:"from_name"`
	Timestamp int64  `json:"timestamp"`
}

// RaiseHandEvent signals that a participant raised their hand.
type RaiseHandEvent struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Timestamp int64  `json:"timestamp"`
}

// ConnectionErrorEvent relays a sender-reported client-side failure so
// peers can restart negotiation.
type ConnectionErrorEvent struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	Error     string `json:"error"`
	Timestamp int64  `json:"timestamp"`
}

// RoomStateEvent answers a get_room_state query, requester only.
type RoomStateEvent struct {
	Type         string        `json:"type"`
	Session      *Session      `json:"session"`
	Participants []Participant `json:"participants"`
}

// ErrorEvent is the typed validation error returned to a sender. It is
// never broadcast and never closes the connection.
type ErrorEvent struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// PingEvent is the liveness probe; Timestamp is milliseconds since epoch
// and is echoed back by the client's heartbeat.
type PingEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

// PongEvent answers a client-initiated ping.
type PongEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

// LeftEvent acknowledges a voluntary leave to the sender.
type LeftEvent struct {
	Type string `json:"type"`
}

// NowMillis returns the current time in milliseconds since epoch, the
// timestamp unit used on the wire.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// NewError builds a typed error event stamped with the current time.
func NewError(message string) ErrorEvent {
	return ErrorEvent{Type: EventError, Message: message, Timestamp: NowMillis()}
}
