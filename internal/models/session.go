package models

import "time"

// DefaultSessionTTL is how long a session stays alive without activity.
// Every successful token persist bumps LastSeenAt and extends the window.
const DefaultSessionTTL = 12 * time.Hour

// Session is a per-user credential record in multi-user mode.
// At most one live record exists per ID.
type Session struct {
	ID         string
	Token      Token
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// ExpiredAt reports whether the session TTL has lapsed at the given moment
func (s Session) ExpiredAt(now time.Time, ttl time.Duration) bool {
	return s.LastSeenAt.Add(ttl).Before(now)
}
