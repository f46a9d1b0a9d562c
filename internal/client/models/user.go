// Package models contains the data records the Leazzy client works with:
// the cached user session record, property summaries, and the in-progress
// property draft assembled by the add-property wizard.
package models

// User is the locally cached view of "who is logged in", derived from the
// identity provider. The record exists if and only if the provider currently
// reports an active session; its absence means unauthenticated.
type User struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	AvatarURL     string `json:"avatarUrl,omitempty"`
	EmailVerified bool   `json:"emailVerified,omitempty"`
}

// ProfilePatch is a partial update of the mutable profile fields.
// Nil pointers mean "leave unchanged".
type ProfilePatch struct {
	Name      *string `json:"name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// ApplyTo patches u in place with the non-nil fields of p.
func (p ProfilePatch) ApplyTo(u *User) {
	if u == nil {
		return
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}
}
