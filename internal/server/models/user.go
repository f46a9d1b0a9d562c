// Package models contains the server-side data records: registered users,
// refresh tokens, and published property listings.
package models

import "time"

// User is a registered account. PasswordHash holds the bcrypt hash and never
// leaves the server.
type User struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	AvatarURL     string
	EmailVerified bool
	PasswordHash  []byte
	CreatedAt     time.Time
}
