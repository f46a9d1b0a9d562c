// Package session is the single source of truth for "who is logged in". It
// reconciles the identity provider's push-style session feed with the locally
// persisted user record and exposes a pull-style snapshot to the rest of the
// client.
package session

import (
	"context"

	"github.com/ashishkaushik/leazzy/internal/client/models"
)

// Session is the normalized view of an active identity-provider session.
// Adapters own shape variance: whatever the wire format looks like, the
// synchronizer only ever sees this struct.
type Session struct {
	UserID        string
	Name          string
	Email         string
	Phone         string
	AvatarURL     string
	EmailVerified bool
}

// Provider is the identity-provider adapter boundary.
//
// Subscribe registers a callback for session changes; the provider fires it
// with the current session (nil when signed out) after every actual change,
// in chronological order. The subscription is assumed always-available; the
// provider owns reconnection.
type Provider interface {
	Subscribe(fn func(s *Session))
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	Reload(ctx context.Context) (*Session, error)
	UpdateProfile(ctx context.Context, patch models.ProfilePatch) error
	Current() *Session
	// Token mints the bearer credential persisted to skip the sign-in
	// screen on the next launch.
	Token(ctx context.Context) (string, error)
}
