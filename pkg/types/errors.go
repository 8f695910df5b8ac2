package types

import "errors"

// ErrInvalidUserID is returned to clients presenting a malformed user
// identifier, before any websocket upgrade happens.
var ErrInvalidUserID = errors.New("user ID must be 1-50 characters, alphanumeric + underscore/hyphen only")
