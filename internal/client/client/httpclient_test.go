package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashishkaushik/leazzy/internal/client/models"
	"github.com/ashishkaushik/leazzy/internal/client/session"
	"github.com/ashishkaushik/leazzy/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func authHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["password"] != "correct" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"user": userPayload{ID: "u1", Name: "Ashish", Email: creds["email"], EmailVerified: true},
			"access_token":  "at-1",
			"refresh_token": "rt-1",
		})
	}
}

func TestHTTPClient_SignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		authHandler(t)(w, r)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	var notified []*session.Session
	c.Subscribe(func(s *session.Session) { notified = append(notified, s) })

	sess, err := c.SignIn(context.Background(), "a@b.c", "correct")
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, "a@b.c", sess.Email)

	token, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "at-1", token)

	require.Len(t, notified, 1)
	assert.Equal(t, "u1", notified[0].UserID)
}

func TestHTTPClient_SignInBadCredentials(t *testing.T) {
	srv := httptest.NewServer(authHandler(t))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.SignIn(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorUnauthorized))
	assert.Contains(t, err.Error(), "invalid credentials")

	_, err = c.Token(context.Background())
	require.Error(t, err)
}

// An expired access token on an authenticated call triggers a transparent
// refresh and a single retry with the new token.
func TestHTTPClient_RefreshAndRetryOnExpiredToken(t *testing.T) {
	var meCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/me":
			meCalls.Add(1)
			token := strings.TrimPrefix(r.Header.Get(common.AuthorizationHeaderName), common.BearerPrefix)
			if token != "at-2" {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: common.ErrTokenExpired.Error()})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"user": userPayload{ID: "u1", Email: "a@b.c", EmailVerified: true},
			})
		case "/api/auth/refresh":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "rt-1", body["refresh_token"])
			writeJSON(w, http.StatusOK, tokenPair{AccessToken: "at-2", RefreshToken: "rt-2"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.RestoreToken("at-stale", "rt-1")

	sess, err := c.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, int32(2), meCalls.Load(), "one failed call plus one retry")

	token, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "at-2", token)
}

// A 401 that is not a token-expiry signal must not trigger a refresh loop.
func TestHTTPClient_NoRefreshOnPlainUnauthorized(t *testing.T) {
	var refreshCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			refreshCalls.Add(1)
		}
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.RestoreToken("at-bad", "rt-1")

	_, err := c.Reload(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorUnauthorized))
	assert.Equal(t, int32(0), refreshCalls.Load())
}

func TestHTTPClient_SignOutDropsSessionEvenOnServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "boom"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.RestoreToken("at-1", "rt-1")
	var last *session.Session = &session.Session{UserID: "sentinel"}
	c.Subscribe(func(s *session.Session) { last = s })

	err := c.SignOut(context.Background())
	require.Error(t, err)

	assert.Nil(t, c.Current())
	assert.Nil(t, last, "subscribers must observe the signed-out state")
	_, err = c.Token(context.Background())
	require.Error(t, err)
}

func TestHTTPClient_ReloadWithoutToken(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:0")
	sess, err := c.Reload(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestHTTPClient_ListProperties(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/properties", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"properties": []models.Property{
				{ID: "p1", Title: "2 BHK in Indiranagar", Price: 18000},
				{ID: "p2", Title: "1RK near metro", Price: 7000},
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	props, err := c.ListProperties(context.Background())
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, "p1", props[0].ID)
}

func TestHTTPClient_CreateProperty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/properties", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, common.BearerPrefix+"at-1", r.Header.Get(common.AuthorizationHeaderName))

		var draft models.PropertyDraft
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		require.Equal(t, "2 BHK", draft.PropertyType)

		writeJSON(w, http.StatusCreated, map[string]string{"id": "prop-42"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.RestoreToken("at-1", "rt-1")

	draft := models.NewPropertyDraft()
	draft.PropertyType = "2 BHK"
	id, err := c.CreateProperty(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "prop-42", id)
}

func TestHTTPClient_ServerUnreachable(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1")
	_, err := c.ListProperties(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorUnavailable))
}

func TestHTTPClient_ValidationErrorMapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "rent out of range"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.RestoreToken("at-1", "rt-1")
	_, err := c.CreateProperty(context.Background(), models.NewPropertyDraft())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorValidation))
	assert.Contains(t, err.Error(), "rent out of range")
}

func TestHTTPClient_PresignPhotoUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/photos/presign", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]string{"key": "photos/abc", "url": "https://bucket.example.com/photos/abc?sig=x"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.RestoreToken("at-1", "rt-1")
	key, url, err := c.PresignPhotoUpload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "photos/abc", key)
	assert.Contains(t, url, "sig=x")
}
