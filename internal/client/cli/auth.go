package cli

import (
	"context"
	"fmt"

	"github.com/ashishkaushik/leazzy/internal/client/models"
	"github.com/ashishkaushik/leazzy/internal/client/session"
	"github.com/ashishkaushik/leazzy/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email and password and creates an account.
// A successful registration signs the new user in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.api.Register(ctx, name, email, string(password)); err != nil {
		fmt.Fprintf(a.out, "Registration failed: %s\n", err)
		return err
	}

	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Login prompts for credentials and authenticates through the session
// synchronizer, which applies the verdict and persists the bearer token.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.sync.SignIn(ctx, email, string(password)); err != nil {
		fmt.Fprintf(a.out, "Login failed: %s\n", err)
		return err
	}

	fmt.Fprintln(a.out, "Logged in.")
	return nil
}

// Logout revokes the session. The local state is cleared even when the
// server-side revoke fails.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sync.SignOut(ctx); err != nil {
		fmt.Fprintf(a.out, "Logout finished with a server error: %s\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI prints the current session snapshot.
func (a *App) WhoAmI(ctx context.Context) error {
	snap := a.sync.Snapshot()
	switch {
	case snap.Loading:
		fmt.Fprintln(a.out, "Session state is still being determined.")
	case snap.User == nil:
		fmt.Fprintln(a.out, "Not signed in.")
	default:
		u := snap.User
		fmt.Fprintf(a.out, "%s <%s>\n", u.Name, u.Email)
		if u.Phone != "" {
			fmt.Fprintf(a.out, "Phone: %s\n", u.Phone)
		}
		if u.EmailVerified {
			fmt.Fprintln(a.out, "Email verified.")
		} else {
			fmt.Fprintln(a.out, "Email NOT verified.")
		}
	}
	return nil
}

// RefreshSession re-fetches the session from the server, picking up
// server-side changes such as a flipped verification flag.
func (a *App) RefreshSession(ctx context.Context) error {
	if err := a.sync.Refresh(ctx); err != nil {
		fmt.Fprintf(a.out, "Refresh failed: %s\n", err)
		return err
	}
	return a.WhoAmI(ctx)
}

// EditProfile prompts for the mutable profile fields; empty input keeps the
// current value.
func (a *App) EditProfile(ctx context.Context) error {
	snap := a.sync.Snapshot()
	if snap.User == nil {
		fmt.Fprintln(a.out, "Sign in first.")
		return common.ErrorUnauthorized
	}

	var patch models.ProfilePatch

	name, err := getSimpleText(a.reader, fmt.Sprintf("Name [%s]", snap.User.Name), a.out)
	if err != nil {
		return err
	}
	if name != "" {
		patch.Name = &name
	}

	phone, err := getSimpleText(a.reader, fmt.Sprintf("Phone [%s]", snap.User.Phone), a.out)
	if err != nil {
		return err
	}
	if phone != "" {
		patch.Phone = &phone
	}

	if patch.Name == nil && patch.Phone == nil {
		fmt.Fprintln(a.out, "Nothing to change.")
		return nil
	}

	if err := a.sync.UpdateProfile(ctx, patch); err != nil {
		fmt.Fprintf(a.out, "Profile update failed: %s\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Profile updated.")
	return nil
}

// guardAllows runs the route guard for a protected destination and reports
// the verdict to the user when access is denied.
func (a *App) guardAllows(route string) bool {
	switch a.guard.Decide(a.sync.Snapshot(), route) {
	case session.DecisionAllow:
		return true
	case session.DecisionWait:
		fmt.Fprintln(a.out, "Still checking your session, try again in a moment.")
	case session.DecisionRedirectSignIn:
		fmt.Fprintln(a.out, "Sign in first (login).")
	case session.DecisionRedirectVerifyEmail:
		fmt.Fprintln(a.out, "Verify your email first, then run refresh.")
	}
	return false
}
