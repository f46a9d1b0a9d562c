package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ashishkaushik/leazzy/internal/client/models"
)

func TestGuard_Decide(t *testing.T) {
	verified := &models.User{ID: "u1", Email: "a@b.c", EmailVerified: true}
	unverified := &models.User{ID: "u1", Email: "a@b.c", EmailVerified: false}
	noEmail := &models.User{ID: "u1"}

	tests := []struct {
		name  string
		guard Guard
		snap  Snapshot
		route string
		want  Decision
	}{
		{
			name: "loading shows neutral affordance",
			snap: Snapshot{Loading: true},
			want: DecisionWait,
		},
		{
			name: "unauthenticated redirects to sign in",
			snap: Snapshot{Authenticated: false},
			want: DecisionRedirectSignIn,
		},
		{
			name: "authenticated verified allowed",
			snap: Snapshot{Authenticated: true, User: verified},
			want: DecisionAllow,
		},
		{
			name:  "unverified email redirects to interstitial",
			guard: Guard{RequireVerifiedEmail: true},
			snap:  Snapshot{Authenticated: true, User: unverified},
			route: "/",
			want:  DecisionRedirectVerifyEmail,
		},
		{
			name:  "no redirect loop on the interstitial itself",
			guard: Guard{RequireVerifiedEmail: true},
			snap:  Snapshot{Authenticated: true, User: unverified},
			route: RouteVerifyEmail,
			want:  DecisionAllow,
		},
		{
			name:  "no email means nothing to verify",
			guard: Guard{RequireVerifiedEmail: true},
			snap:  Snapshot{Authenticated: true, User: noEmail},
			want:  DecisionAllow,
		},
		{
			name: "verification not required",
			snap: Snapshot{Authenticated: true, User: unverified},
			want: DecisionAllow,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.guard.Decide(tc.snap, tc.route))
		})
	}
}
