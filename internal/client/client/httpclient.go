package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ashishkaushik/leazzy/internal/client/models"
	"github.com/ashishkaushik/leazzy/internal/client/session"
	"github.com/ashishkaushik/leazzy/internal/common"
	"github.com/ashishkaushik/leazzy/internal/logging"
)

// HTTPClient talks JSON over HTTP to the Leazzy backend. It holds the
// access/refresh token pair for the signed-in user and re-authenticates
// transparently when the access token expires mid-call.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	logger  logging.Logger

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	sess         *session.Session
	subs         []func(*session.Session)
}

type HTTPClientOption func(*HTTPClient)

func WithHTTPClient(hc *http.Client) HTTPClientOption {
	return func(c *HTTPClient) { c.hc = hc }
}

func WithClientLogger(l logging.Logger) HTTPClientOption {
	return func(c *HTTPClient) { c.logger = l }
}

func NewHTTPClient(baseURL string, opts ...HTTPClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 12 * time.Second},
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wire shapes. The embedded pair keeps the token fields flat in the auth
// response bodies.
type userPayload struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	AvatarURL     string `json:"avatarUrl,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type authResponse struct {
	User userPayload `json:"user"`
	tokenPair
}

type errorResponse struct {
	Error string `json:"error"`
}

// Subscribe registers a session-change callback. The client fires it after
// sign-in, sign-out, session restore, and reload.
func (c *HTTPClient) Subscribe(fn func(s *session.Session)) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

func (c *HTTPClient) emit() {
	c.mu.Lock()
	sess := c.sess
	subs := make([]func(*session.Session), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(sess)
	}
}

// Announce re-emits the current session (possibly nil) so subscribers that
// registered before the first backend contact get a verdict.
func (c *HTTPClient) Announce() {
	c.emit()
}

// Register creates an account and signs the new user in.
func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*session.Session, error) {
	in := map[string]string{"name": name, "email": email, "password": password}
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", in, &out, false); err != nil {
		return nil, err
	}
	c.adoptAuth(out)
	c.emit()
	return c.Current(), nil
}

// SignIn exchanges credentials for a token pair and the user profile.
func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	in := map[string]string{"email": email, "password": password}
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", in, &out, false); err != nil {
		return nil, err
	}
	c.adoptAuth(out)
	c.emit()
	return c.Current(), nil
}

// SignOut revokes the refresh token server-side and drops the local session.
// The local session is dropped even when the revoke call fails.
func (c *HTTPClient) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, true)

	c.mu.Lock()
	c.accessToken = ""
	c.refreshToken = ""
	c.sess = nil
	c.mu.Unlock()
	c.emit()

	return err
}

// RestoreToken adopts a previously persisted bearer token so the session can
// be resumed without the sign-in screen. Call Reload afterwards to fetch the
// profile and fire the session notification.
func (c *HTTPClient) RestoreToken(accessToken, refreshToken string) {
	c.mu.Lock()
	c.accessToken = accessToken
	c.refreshToken = refreshToken
	c.mu.Unlock()
}

// Reload re-fetches the signed-in user's profile. It returns (nil, nil) when
// no token is held.
func (c *HTTPClient) Reload(ctx context.Context) (*session.Session, error) {
	c.mu.Lock()
	hasToken := c.accessToken != ""
	c.mu.Unlock()
	if !hasToken {
		return nil, nil
	}

	var out struct {
		User userPayload `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out, true); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.sess = toSession(out.User)
	c.mu.Unlock()
	c.emit()
	return c.Current(), nil
}

// UpdateProfile patches the mutable profile fields server-side.
func (c *HTTPClient) UpdateProfile(ctx context.Context, patch models.ProfilePatch) error {
	var out struct {
		User userPayload `json:"user"`
	}
	if err := c.do(ctx, http.MethodPatch, "/api/auth/me", patch, &out, true); err != nil {
		return err
	}

	c.mu.Lock()
	c.sess = toSession(out.User)
	c.mu.Unlock()
	return nil
}

// Current returns the session as of the last backend response, or nil.
func (c *HTTPClient) Current() *session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return nil
	}
	s := *c.sess
	return &s
}

// Token returns the bearer credential to persist for session restore.
func (c *HTTPClient) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken == "" {
		return "", common.ErrorUnauthorized
	}
	return c.accessToken, nil
}

// ListProperties fetches the published listing summaries.
func (c *HTTPClient) ListProperties(ctx context.Context) ([]models.Property, error) {
	var out struct {
		Properties []models.Property `json:"properties"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/properties", nil, &out, false); err != nil {
		return nil, err
	}
	return out.Properties, nil
}

// CreateProperty publishes a completed draft and returns the new listing id.
func (c *HTTPClient) CreateProperty(ctx context.Context, draft models.PropertyDraft) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/properties", draft, &out, true); err != nil {
		return "", err
	}
	return out.ID, nil
}

// PresignPhotoUpload asks the backend for a one-time upload URL. The
// returned key becomes the photo reference stored on the draft.
func (c *HTTPClient) PresignPhotoUpload(ctx context.Context) (key string, url string, err error) {
	var out struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/photos/presign", nil, &out, true); err != nil {
		return "", "", err
	}
	return out.Key, out.URL, nil
}

func (c *HTTPClient) adoptAuth(resp authResponse) {
	c.mu.Lock()
	c.accessToken = resp.AccessToken
	c.refreshToken = resp.RefreshToken
	c.sess = toSession(resp.User)
	c.mu.Unlock()
}

func toSession(u userPayload) *session.Session {
	return &session.Session{
		UserID:        u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		AvatarURL:     u.AvatarURL,
		EmailVerified: u.EmailVerified,
	}
}

// do runs one JSON round trip. On an authenticated call that fails with
// 401 "token expired", it refreshes the token pair and retries once with the
// new access token.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any, authed bool) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	status, body, err := c.roundTrip(ctx, method, path, payload, authed)
	if err != nil {
		return err
	}

	if authed && status == http.StatusUnauthorized && errMessage(body) == common.ErrTokenExpired.Error() {
		if err := c.refresh(ctx); err != nil {
			return err
		}
		status, body, err = c.roundTrip(ctx, method, path, payload, authed)
		if err != nil {
			return err
		}
	}

	if status >= 400 {
		return mapStatus(status, errMessage(body))
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) roundTrip(ctx context.Context, method, path string, payload []byte, authed bool) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		c.mu.Lock()
		token := c.accessToken
		c.mu.Unlock()
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// refresh exchanges the refresh token for a new pair.
func (c *HTTPClient) refresh(ctx context.Context) error {
	c.mu.Lock()
	rt := c.refreshToken
	c.mu.Unlock()
	if rt == "" {
		return common.ErrTokenExpired
	}

	payload, err := json.Marshal(map[string]string{"refresh_token": rt})
	if err != nil {
		return err
	}
	status, body, err := c.roundTrip(ctx, http.MethodPost, "/api/auth/refresh", payload, false)
	if err != nil {
		return err
	}
	if status >= 400 {
		return mapStatus(status, errMessage(body))
	}

	var pair tokenPair
	if err := json.Unmarshal(body, &pair); err != nil {
		return fmt.Errorf("decode token pair: %w", err)
	}

	c.mu.Lock()
	c.accessToken = pair.AccessToken
	c.refreshToken = pair.RefreshToken
	c.mu.Unlock()
	c.logger.Debug(ctx, "access token refreshed")
	return nil
}

func errMessage(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return ""
	}
	return er.Error
}

func mapStatus(status int, msg string) error {
	var sentinel error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		sentinel = common.ErrorUnauthorized
	case status == http.StatusNotFound:
		sentinel = common.ErrorNotFound
	case status == http.StatusConflict:
		sentinel = common.ErrorAlreadyExists
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		sentinel = common.ErrorValidation
	case status >= 500:
		sentinel = common.ErrorUnavailable
	default:
		sentinel = common.ErrorInternal
	}
	if msg == "" {
		return sentinel
	}
	return fmt.Errorf("%s: %w", msg, sentinel)
}
