package session

import "strconv"

// Key formats must match any previously stored data exactly.
const (
	keyPrefix = "session_"

	// CounterKey names the single global counter that allocates
	// session ids, shared by every creation call.
	CounterKey = "session_id"
)

// CacheKey maps a session id to its cache key: a fixed prefix followed
// by the decimal id.
func CacheKey(sessionID int) string {
	return keyPrefix + strconv.Itoa(sessionID)
}

// ParseToken parses a raw cookie value into a session id. The token is
// the decimal string of the id; anything else is ErrInvalidToken.
func ParseToken(token string) (int, error) {
	id, err := strconv.Atoi(token)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// FormatToken is the inverse of ParseToken.
func FormatToken(sessionID int) string {
	return strconv.Itoa(sessionID)
}
