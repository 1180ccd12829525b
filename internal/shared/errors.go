package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated occurs when no principal could be resolved for a request.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrSessionExpired occurs when a bearer session exists but is past its TTL.
	ErrSessionExpired = errors.New("session expired")
)
