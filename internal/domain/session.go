package domain

import "time"

// Session represents a pending OAuth installation. It is persisted when the
// authorize redirect is issued and consumed when the callback returns; a
// callback presenting an unknown state has no session and is rejected.
type Session struct {
	Shop      string    `json:"shop"`
	State     string    `json:"state"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
