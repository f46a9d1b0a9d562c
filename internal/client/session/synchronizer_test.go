package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ashishkaushik/leazzy/internal/client/models"
)

type fakeProvider struct {
	mu           sync.Mutex
	cb           func(*Session)
	sess         *Session
	token        string
	tokenErr     error
	signInErr    error
	signOutErr   error
	reloadErr    error
	updateErr    error
	signOutCalls int
	updates      []models.ProfilePatch
}

func (p *fakeProvider) Subscribe(fn func(*Session)) {
	p.mu.Lock()
	p.cb = fn
	p.mu.Unlock()
}

// push simulates a provider-side session change notification.
func (p *fakeProvider) push(s *Session) {
	p.mu.Lock()
	p.sess = s
	cb := p.cb
	p.mu.Unlock()
	if cb != nil {
		cb(s)
	}
}

func (p *fakeProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if p.signInErr != nil {
		return nil, p.signInErr
	}
	p.mu.Lock()
	p.sess = &Session{UserID: "u1", Name: "Ashish", Email: email}
	s := p.sess
	p.mu.Unlock()
	return s, nil
}

func (p *fakeProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.signOutCalls++
	p.sess = nil
	p.mu.Unlock()
	return p.signOutErr
}

func (p *fakeProvider) Reload(ctx context.Context) (*Session, error) {
	if p.reloadErr != nil {
		return nil, p.reloadErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sess, nil
}

func (p *fakeProvider) UpdateProfile(ctx context.Context, patch models.ProfilePatch) error {
	p.mu.Lock()
	p.updates = append(p.updates, patch)
	p.mu.Unlock()
	return p.updateErr
}

func (p *fakeProvider) Current() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sess
}

func (p *fakeProvider) Token(ctx context.Context) (string, error) {
	if p.tokenErr != nil {
		return "", p.tokenErr
	}
	if p.token == "" {
		return "tok-1", nil
	}
	return p.token, nil
}

type fakeStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	writes map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}, writes: map[string]int{}}
}

func (s *fakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (s *fakeStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes[key]++
	s.data[key] = value
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *fakeStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

func newTestSync(t *testing.T) (*Synchronizer, *fakeProvider, *fakeStore) {
	t.Helper()
	provider := &fakeProvider{}
	store := newFakeStore()
	s := NewSynchronizer(provider, store)
	s.Start(context.Background())
	return s, provider, store
}

func TestSynchronizer_StartsInitializing(t *testing.T) {
	s, _, _ := newTestSync(t)

	require.Equal(t, StateInitializing, s.State())
	snap := s.Snapshot()
	require.True(t, snap.Loading)
	require.False(t, snap.Authenticated)
}

func TestSynchronizer_FirstNotificationWithSession(t *testing.T) {
	s, provider, store := newTestSync(t)

	provider.push(&Session{UserID: "u1", Name: "Ashish", Email: "a@b.c", EmailVerified: true})

	require.Equal(t, StateAuthenticated, s.State())
	snap := s.Snapshot()
	require.False(t, snap.Loading)
	require.True(t, snap.Authenticated)
	require.Equal(t, "u1", snap.User.ID)
	require.Equal(t, "tok-1", string(store.data[BearerTokenKey]))
}

func TestSynchronizer_FirstNotificationWithoutSession(t *testing.T) {
	s, provider, store := newTestSync(t)
	store.data[BearerTokenKey] = []byte("stale")

	provider.push(nil)

	require.Equal(t, StateUnauthenticated, s.State())
	require.False(t, s.Snapshot().Loading)
	require.False(t, store.has(BearerTokenKey))
}

// Session reconciliation idempotence: the same non-nil session twice leaves
// the record, the state, and the persisted record unchanged (the durable
// user write happens once; the token overwrite is idempotent).
func TestSynchronizer_ReconcileIdempotent(t *testing.T) {
	s, provider, store := newTestSync(t)
	sess := &Session{UserID: "u1", Name: "Ashish", Email: "a@b.c"}

	provider.push(sess)
	userAfterFirst := s.Snapshot().User
	userWrites := store.writes[UserRecordKey]

	provider.push(sess)

	require.Equal(t, StateAuthenticated, s.State())
	require.Equal(t, userAfterFirst, s.Snapshot().User)
	require.Equal(t, userWrites, store.writes[UserRecordKey], "identical record must not be re-persisted")
	require.Equal(t, "tok-1", string(store.data[BearerTokenKey]))
}

// Sign-out clears state: no record, unauthenticated, durable marker gone.
func TestSynchronizer_SignOutClearsEverything(t *testing.T) {
	s, provider, store := newTestSync(t)
	provider.push(&Session{UserID: "u1"})

	require.NoError(t, s.SignOut(context.Background()))

	snap := s.Snapshot()
	require.False(t, snap.Authenticated)
	require.Nil(t, snap.User)
	require.False(t, store.has(BearerTokenKey))
	require.Equal(t, 1, provider.signOutCalls)
}

func TestSynchronizer_SignOutProviderFailureStillClears(t *testing.T) {
	s, provider, store := newTestSync(t)
	provider.push(&Session{UserID: "u1"})
	provider.signOutErr = errors.New("network down")

	err := s.SignOut(context.Background())
	require.Error(t, err)

	require.Equal(t, StateUnauthenticated, s.State())
	require.Nil(t, s.Snapshot().User)
	require.False(t, store.has(BearerTokenKey))
}

func TestSynchronizer_SignInAppliesImmediatelyAndNavigates(t *testing.T) {
	provider := &fakeProvider{}
	store := newFakeStore()
	navigated := false
	s := NewSynchronizer(provider, store, WithNavigator(func() { navigated = true }))
	s.Start(context.Background())

	require.NoError(t, s.SignIn(context.Background(), "a@b.c", "pw"))

	require.Equal(t, StateAuthenticated, s.State())
	require.True(t, navigated)
	require.Equal(t, "a@b.c", s.Snapshot().User.Email)

	// The subscription callback eventually fires for the same session;
	// the late no-op reconciliation must not regress the state.
	provider.push(provider.Current())
	require.Equal(t, StateAuthenticated, s.State())
	require.Equal(t, "a@b.c", s.Snapshot().User.Email)
}

func TestSynchronizer_SignInFailureSurfacedAndStateKept(t *testing.T) {
	s, provider, _ := newTestSync(t)
	provider.push(nil)
	provider.signInErr = errors.New("wrong password")

	err := s.SignIn(context.Background(), "a@b.c", "bad")
	require.Error(t, err)
	require.Equal(t, StateUnauthenticated, s.State())
	require.False(t, s.Snapshot().Loading)
}

func TestSynchronizer_RefreshRematerializesWithoutStateChange(t *testing.T) {
	s, provider, _ := newTestSync(t)
	provider.push(&Session{UserID: "u1", Email: "a@b.c", EmailVerified: false})

	// server-side verification flag flips
	provider.sess = &Session{UserID: "u1", Email: "a@b.c", EmailVerified: true}

	require.NoError(t, s.Refresh(context.Background()))

	snap := s.Snapshot()
	require.True(t, snap.Authenticated)
	require.True(t, snap.User.EmailVerified)
}

func TestSynchronizer_UpdateProfileKeepsLocalPatchOnProviderFailure(t *testing.T) {
	s, provider, _ := newTestSync(t)
	provider.push(&Session{UserID: "u1", Name: "Old"})
	provider.updateErr = errors.New("backend rejected")

	name := "New Name"
	err := s.UpdateProfile(context.Background(), models.ProfilePatch{Name: &name})
	require.Error(t, err)

	// accepted eventual-consistency risk: local record keeps the patch
	require.Equal(t, "New Name", s.Snapshot().User.Name)
	require.Len(t, provider.updates, 1)
}

func TestSynchronizer_UpdateProfileUnauthenticated(t *testing.T) {
	s, provider, _ := newTestSync(t)
	provider.push(nil)

	name := "X"
	err := s.UpdateProfile(context.Background(), models.ProfilePatch{Name: &name})
	require.Error(t, err)
}

func TestSynchronizer_WatchersSeeTransitions(t *testing.T) {
	s, provider, _ := newTestSync(t)

	var states []bool
	unsub := s.Watch(func(snap Snapshot) { states = append(states, snap.Authenticated) })

	provider.push(&Session{UserID: "u1"})
	provider.push(nil)
	unsub()
	provider.push(&Session{UserID: "u1"})

	require.Equal(t, []bool{true, false}, states)
}

func TestSynchronizer_StartLoadsCachedRecordBestEffort(t *testing.T) {
	provider := &fakeProvider{}
	store := newFakeStore()
	store.data[UserRecordKey] = []byte(`{"id":"cached","name":"Cached User"}`)

	s := NewSynchronizer(provider, store)
	s.Start(context.Background())

	// cached record visible while the verdict is still pending
	snap := s.Snapshot()
	require.True(t, snap.Loading)
	require.Equal(t, "cached", snap.User.ID)

	// live provider responds and overwrites
	provider.push(&Session{UserID: "live"})
	require.Equal(t, "live", s.Snapshot().User.ID)
}
