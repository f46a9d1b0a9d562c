package models

import "time"

// RefreshToken is a single-use opaque token. ID is the token value itself;
// the row is deleted when the token is rotated or revoked.
type RefreshToken struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}
