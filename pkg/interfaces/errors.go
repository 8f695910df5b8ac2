package interfaces

import "errors"

// Errors shared across component boundaries.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrSessionEnded    = errors.New("session has ended")
	ErrUnauthorized    = errors.New("user not authorized for this session")
)
