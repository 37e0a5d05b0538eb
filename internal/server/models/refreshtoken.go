package models

import "time"

// RefreshToken is the persisted half of a login session. The opaque Token is
// handed to the client once and traded for a fresh access token on refresh.
type RefreshToken struct {
	CreatedAt time.Time
	Expires   time.Time
	ID        string
	UserID    string
	Token     string
}

// Expired reports whether the session can no longer be refreshed at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.Expires)
}
