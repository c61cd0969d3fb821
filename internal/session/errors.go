package session

import "errors"

// Resolution failures are deliberately distinguishable on the server
// side even though the HTTP layer collapses them into one generic
// "unauthenticated" response for the client.
var (
	// ErrInvalidToken means the cookie carried a value that does not
	// parse as a session id.
	ErrInvalidToken = errors.New("session: invalid token")

	// ErrNotFound means the token parsed but no live cache entry
	// exists. Naturally expired sessions land here too; there is no
	// separate tombstone state.
	ErrNotFound = errors.New("session: not found")

	// ErrCorrupt means a cache entry exists but its value fails to
	// deserialize. This is a data-integrity event, never an ordinary
	// expiry.
	ErrCorrupt = errors.New("session: corrupt record")

	// ErrBackend wraps transport-level cache failures. Callers may
	// retry at most once; the session layer never retries on its own.
	ErrBackend = errors.New("session: cache backend")
)
