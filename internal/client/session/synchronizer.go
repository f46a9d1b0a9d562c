package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/ashishkaushik/leazzy/internal/client/models"
	"github.com/ashishkaushik/leazzy/internal/client/state"
	"github.com/ashishkaushik/leazzy/internal/common"
	"github.com/ashishkaushik/leazzy/internal/logging"
)

// State is the synchronizer's authentication verdict.
type State int

const (
	// StateInitializing means no verdict yet: the provider has not fired
	// its first session-change notification.
	StateInitializing State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "initializing"
	}
}

// Snapshot is the externally visible view of the session state.
type Snapshot struct {
	User          *models.User
	Authenticated bool
	Loading       bool
}

// Storage keys. The user record mirrors the provider session; the bearer
// token is the durable marker used to restore the session on next launch.
const (
	UserRecordKey  = "user"
	BearerTokenKey = "auth_token"
)

// Synchronizer mediates between the provider's live session feed and the
// locally persisted user record. It owns both durable keys for the lifetime
// of the process; nothing else writes them.
type Synchronizer struct {
	mu       sync.Mutex
	provider Provider
	store    state.Store
	userCell *state.Cell[*models.User]
	st       State
	busy     int
	watchers []func(Snapshot)
	navigate func()
	logger   logging.Logger
}

type SyncOption func(*Synchronizer)

// WithNavigator sets the side effect fired after an explicit sign-in
// succeeds (navigation to the authenticated area of the app).
func WithNavigator(fn func()) SyncOption {
	return func(s *Synchronizer) { s.navigate = fn }
}

func WithSyncLogger(l logging.Logger) SyncOption {
	return func(s *Synchronizer) { s.logger = l }
}

func NewSynchronizer(provider Provider, store state.Store, opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{
		provider: provider,
		store:    store,
		st:       StateInitializing,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.userCell = state.New(store, UserRecordKey, (*models.User)(nil), state.WithLogger[*models.User](s.logger))
	return s
}

// Start hydrates the cached user record (best effort, overwritten as soon as
// the provider responds) and subscribes to the provider's session feed.
func (s *Synchronizer) Start(ctx context.Context) {
	s.userCell.Load(ctx)
	s.provider.Subscribe(func(sess *Session) {
		// Notifications arrive outside any caller's request scope.
		s.reconcile(context.Background(), sess)
	})
}

// Snapshot returns the current {user, authenticated, loading} view.
// Loading is true until the first provider verdict and during explicit
// in-flight operations.
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Synchronizer) snapshotLocked() Snapshot {
	return Snapshot{
		User:          s.userCell.Get(),
		Authenticated: s.st == StateAuthenticated,
		Loading:       s.st == StateInitializing || s.busy > 0,
	}
}

// State returns the raw state machine verdict.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

// Watch registers an observer notified after every snapshot change. The
// returned function unregisters it.
func (s *Synchronizer) Watch(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
	idx := len(s.watchers) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.watchers[idx] = nil
	}
}

func (s *Synchronizer) notify() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	watchers := make([]func(Snapshot), len(s.watchers))
	copy(watchers, s.watchers)
	s.mu.Unlock()

	for _, fn := range watchers {
		if fn != nil {
			fn(snap)
		}
	}
}

// reconcile applies a session verdict. It is idempotent: firing it twice
// with the same session leaves the record, the state, and the durable marker
// unchanged beyond an idempotent overwrite.
func (s *Synchronizer) reconcile(ctx context.Context, sess *Session) {
	s.mu.Lock()
	if sess != nil {
		s.userCell.Set(ctx, materialize(sess))
		s.st = StateAuthenticated
		s.mu.Unlock()
		s.persistToken(ctx)
	} else {
		s.userCell.Clear(ctx)
		s.st = StateUnauthenticated
		s.mu.Unlock()
		if err := s.store.Delete(ctx, BearerTokenKey); err != nil {
			s.logger.Error(ctx, "failed to clear bearer token", "error", err)
		}
	}
	s.notify()
}

func (s *Synchronizer) persistToken(ctx context.Context) {
	token, err := s.provider.Token(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to mint bearer token", "error", err)
		return
	}
	if err := s.store.Set(ctx, BearerTokenKey, []byte(token)); err != nil {
		s.logger.Error(ctx, "failed to persist bearer token", "error", err)
	}
}

// SignIn exchanges credentials for a session, applies the authenticated
// state immediately, and fires the navigation side effect. The eventual
// subscription notification for the same session reconciles to a no-op.
func (s *Synchronizer) SignIn(ctx context.Context, email, password string) error {
	s.setBusy(1)
	defer s.setBusy(-1)

	sess, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	s.reconcile(ctx, sess)
	if s.navigate != nil {
		s.navigate()
	}
	return nil
}

// SignOut revokes the provider session and forces the unauthenticated state
// regardless of the provider call's outcome: the local record and the
// durable marker are always cleared. A provider failure is still surfaced.
func (s *Synchronizer) SignOut(ctx context.Context) error {
	s.setBusy(1)
	defer s.setBusy(-1)

	err := s.provider.SignOut(ctx)
	s.reconcile(ctx, nil)
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// Refresh force-reloads the provider's view of the current session (e.g. to
// observe a verification flag flipping server-side) and re-materializes the
// user record. The authentication state itself does not change.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	s.setBusy(1)
	defer s.setBusy(-1)

	sess, err := s.provider.Reload(ctx)
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	if sess != nil {
		s.mu.Lock()
		s.userCell.Set(ctx, materialize(sess))
		s.mu.Unlock()
		s.notify()
	}
	return nil
}

// UpdateProfile patches the mutable profile fields locally and on the
// provider side. A provider-side failure is surfaced but does not roll back
// the local patch; the next Refresh re-converges the record.
func (s *Synchronizer) UpdateProfile(ctx context.Context, patch models.ProfilePatch) error {
	s.mu.Lock()
	current := s.userCell.Get()
	if current == nil {
		s.mu.Unlock()
		return common.ErrorUnauthorized
	}
	patched := *current
	patch.ApplyTo(&patched)
	s.userCell.Set(ctx, &patched)
	s.mu.Unlock()
	s.notify()

	if err := s.provider.UpdateProfile(ctx, patch); err != nil {
		s.logger.Error(ctx, "provider profile update failed, local record kept", "error", err)
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (s *Synchronizer) setBusy(delta int) {
	s.mu.Lock()
	s.busy += delta
	s.mu.Unlock()
	s.notify()
}

func materialize(sess *Session) *models.User {
	return &models.User{
		ID:            sess.UserID,
		Name:          sess.Name,
		Email:         sess.Email,
		Phone:         sess.Phone,
		AvatarURL:     sess.AvatarURL,
		EmailVerified: sess.EmailVerified,
	}
}
