package model

import "time"

// Session proves a successful PIN login. The token travels in a cookie;
// the row is the source of truth for expiry.
type Session struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
