// Package auth decides whether a user may join a session room and with
// which role. The decision is read-only: connecting never creates or
// repairs bookings, that belongs to the booking application.
package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/ANANDU-2000/PeerLearningPlatform/internal/session"
	"github.com/ANANDU-2000/PeerLearningPlatform/pkg/interfaces"
	"github.com/ANANDU-2000/PeerLearningPlatform/pkg/types"
)

// Mode selects the join policy for learners.
const (
	// ModeStrict admits the assigned mentor and learners holding a
	// confirmed, fully paid booking.
	ModeStrict = "strict"
	// ModePermissive admits the assigned mentor and any authenticated
	// user. It exists for staging rooms and must be set explicitly in
	// configuration; it is logged loudly at startup.
	ModePermissive = "permissive"
)

// Authorizer implements the connection admission policy.
type Authorizer struct {
	sessions *session.Manager
	store    interfaces.SessionStore
	strict   bool
}

// New creates an authorizer. mode must be ModeStrict or ModePermissive.
func New(sessions *session.Manager, store interfaces.SessionStore, mode string) *Authorizer {
	strict := mode != ModePermissive
	if !strict {
		log.Warn().Str("module", "auth").Msg("permissive join policy enabled: any authenticated user may join any session")
	}
	return &Authorizer{sessions: sessions, store: store, strict: strict}
}

// Strict reports whether the strict learner policy is active.
func (a *Authorizer) Strict() bool {
	return a.strict
}

// Authorize decides whether userID may join sessionID and returns the
// granted role. Unauthenticated users (empty userID) are always refused.
// The session's assigned mentor is admitted as mentor; everyone else is
// checked against bookings per the configured mode.
func (a *Authorizer) Authorize(ctx context.Context, userID, sessionID string) (string, error) {
	if userID == "" {
		return "", ErrUnauthenticated
	}

	sess, err := a.sessions.Joinable(ctx, sessionID)
	if err != nil {
		return "", err
	}

	if sess.MentorID == userID {
		return types.RoleMentor, nil
	}

	booking, err := a.store.GetBooking(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrBookingNotFound) {
			if !a.strict {
				// Permissive fallback: authenticated user without a
				// booking still joins as learner.
				return types.RoleLearner, nil
			}
			log.Info().Str("module", "auth").Str("user_id", userID).Str("session_id", sessionID).Msg("join refused: no booking")
			return "", interfaces.ErrUnauthorized
		}
		return "", err
	}

	if a.strict && !booking.Confirmed() {
		log.Info().
			Str("module", "auth").
			Str("user_id", userID).
			Str("session_id", sessionID).
			Str("booking_status", booking.Status).
			Bool("payment_complete", booking.PaymentComplete).
			Msg("join refused: booking not confirmed")
		return "", interfaces.ErrUnauthorized
	}

	return types.RoleLearner, nil
}
