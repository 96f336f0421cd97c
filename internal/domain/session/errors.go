package session

import "errors"

var (
	// ErrSecretMissing indicates the broadcaster has no secret to derive tokens with
	ErrSecretMissing = errors.New("session secret missing")

	// ErrNotActive indicates the session is not ACTIVE or has expired
	ErrNotActive = errors.New("session is not active")

	// ErrSessionIDRequired indicates a session without an id
	ErrSessionIDRequired = errors.New("session id is required")
)
