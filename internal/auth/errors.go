package auth

import "errors"

// ErrUnauthenticated marks a connection attempt carrying no user
// identity.
var ErrUnauthenticated = errors.New("connection is not authenticated")
