package session

// Route targets the guard redirects to.
const (
	RouteSignIn      = "/auth/login"
	RouteVerifyEmail = "/auth/email-verification"
)

// Decision is the guard's verdict for the current navigation attempt.
type Decision int

const (
	// DecisionWait means show a neutral loading affordance; no verdict yet.
	DecisionWait Decision = iota
	DecisionAllow
	DecisionRedirectSignIn
	DecisionRedirectVerifyEmail
)

// Guard protects authenticated routes using the synchronizer's snapshot.
type Guard struct {
	// RequireVerifiedEmail additionally routes users with an unverified
	// email address to the verification interstitial.
	RequireVerifiedEmail bool
}

// Decide maps a snapshot and the current route to a navigation decision.
// It never redirects to the verification interstitial when already on it,
// so no redirect loop is possible.
func (g Guard) Decide(s Snapshot, currentRoute string) Decision {
	if s.Loading {
		return DecisionWait
	}
	if !s.Authenticated {
		return DecisionRedirectSignIn
	}
	if g.RequireVerifiedEmail && s.User != nil && s.User.Email != "" && !s.User.EmailVerified {
		if currentRoute == RouteVerifyEmail {
			return DecisionAllow
		}
		return DecisionRedirectVerifyEmail
	}
	return DecisionAllow
}
