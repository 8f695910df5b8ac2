// Package interfaces holds the contracts shared across components, so
// that the room registry, relay and liveness monitor stay decoupled from
// the gorilla/websocket transport and the SQLite store behind them.
package interfaces

import (
	"context"

	"github.com/ANANDU-2000/PeerLearningPlatform/pkg/types"
)

// Conn is one participant's outbound channel. Implementations must make
// WriteJSON safe for concurrent use (the websocket adapter serializes
// writes through a single writer goroutine) and Close idempotent.
type Conn interface {
	// WriteJSON encodes v and queues it for delivery to the client.
	WriteJSON(v interface{}) error

	// Close tears the connection down and releases its resources.
	Close() error
}

// SessionStore is the read-only view of the booking system consumed by
// the authorizer. Connecting must never mutate session or booking state,
// so the interface deliberately has no write methods.
type SessionStore interface {
	// GetSession returns the session record, or ErrSessionNotFound.
	GetSession(ctx context.Context, sessionID string) (*types.Session, error)

	// GetBooking returns the booking for (session, learner), or
	// ErrBookingNotFound when no booking row exists.
	GetBooking(ctx context.Context, sessionID, userID string) (*types.Booking, error)
}
