package types

import (
	"encoding/json"
	"time"
)

// Inbound signal kinds accepted from clients. Each kind carries only the
// SignalMessage fields relevant to it; the relay validates per kind.
const (
	KindJoin            = "join"
	KindOffer           = "offer"
	KindAnswer          = "answer"
	KindCandidate       = "candidate"
	KindChat            = "chat"
	KindRaiseHand       = "raise_hand"
	KindConnectionError = "connection_error"
	KindHeartbeat       = "heartbeat"
	KindPong            = "pong"
	KindPing            = "ping"
	KindGetRoomState    = "get_room_state"
	KindLeave           = "leave"
)

// Outbound event kinds delivered to clients.
const (
	EventJoinAck         = "join_ack"
	EventUserJoined      = "user_joined"
	EventUserLeft        = "user_left"
	EventOffer           = "offer"
	EventAnswer          = "answer"
	EventCandidate       = "candidate"
	EventChat            = "chat"
	EventRaiseHand       = "raise_hand"
	EventConnectionError = "connection_error"
	EventRoomState       = "room_state"
	EventError           = "error"
	EventPing            = "ping"
	EventPong            = "pong"
	EventLeft            = "left"
)

// Participant roles inside a session room.
const (
	RoleMentor  = "mentor"
	RoleLearner = "learner"
)

// Session statuses as recorded by the booking system.
const (
	SessionScheduled  = "scheduled"
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
	SessionCancelled  = "cancelled"
)

// Booking statuses as recorded by the booking system.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingRejected  = "rejected"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Session is the durable session record owned by the booking system.
// The signaling core only ever reads it.
type Session struct {
	ID        string     `json:"id" db:"id"`
	MentorID  string     `json:"mentor_id" db:"mentor_id"`
	Title     string     `json:"title" db:"title"`
	StartTime time.Time  `json:"start_time" db:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty" db:"end_time"`
	Status    string     `json:"status" db:"status"`
}

// Joinable reports whether the session can currently host a room.
func (s *Session) Joinable() bool {
	return s.Status == SessionScheduled || s.Status == SessionInProgress
}

// Booking is the durable booking record owned by the booking system,
// read-only from the signaling core's point of view.
type Booking struct {
	SessionID       string `json:"session_id" db:"session_id"`
	LearnerID       string `json:"learner_id" db:"learner_id"`
	Status          string `json:"status" db:"status"`
	PaymentComplete bool   `json:"payment_complete" db:"payment_complete"`
}

// Confirmed reports whether the booking passes the strict join policy.
func (b *Booking) Confirmed() bool {
	return b.Status == BookingConfirmed && b.PaymentComplete
}

// SignalMessage is the tagged union decoded from one inbound frame.
// SDP and ICE payloads stay opaque; the relay never interprets them.
type SignalMessage struct {
	Type      string          `json:"type"`
	To        string          `json:"to_user_id,omitempty"`
	SDP       json.RawMessage `json:"sdp,omitempty"`
	ICE       json.RawMessage `json:"ice,omitempty"`
	Message   string          `json:"message,omitempty"`
	Error     string          `json:"error,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

// Participant is a member snapshot exposed in room_state responses and
// the occupancy API.
type Participant struct {
	UserID   string    `json:"user_id"`
	UserName string    `json:"user_name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// IsMentor reports whether the participant holds the mentor role.
func (p Participant) IsMentor() bool {
	return p.Role == RoleMentor
}
