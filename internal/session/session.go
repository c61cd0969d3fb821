// Package session implements server-side login sessions backed by an
// expiring key-value cache. A session binds an opaque client-held
// cookie value to a user id for a bounded time window; the cache entry
// is the single source of truth, and its absence is logical deletion.
package session

// Session is the persisted session record. Instances are disposable
// projections of the cache entry; every resolution re-fetches.
type Session struct {
	ID     int `json:"id"`
	UserID int `json:"user_id"`
}
