package token

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/MxSGameJPS/minhaloja-valorfinal/pkg/errors"
)

type plainDoer struct {
	client *http.Client
}

func (d *plainDoer) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	return d.client.Do(req.WithContext(ctx))
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupStore(t *testing.T, handler http.HandlerFunc) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	var authURL string
	var doer Doer
	if handler != nil {
		server := httptest.NewServer(handler)
		t.Cleanup(server.Close)
		authURL = server.URL
		doer = &plainDoer{client: server.Client()}
	} else {
		doer = &plainDoer{client: http.DefaultClient}
	}

	store := NewStore(rdb, doer, Config{
		AuthURL:      authURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "https://app.example.com/callback",
	}, newTestLogger())

	return store, mr
}

func TestToken_CachedAccessToken(t *testing.T) {
	store, mr := setupStore(t, nil)
	require.NoError(t, mr.Set("marketplace:access_token", "cached-token"))

	token, err := store.Token(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "cached-token", token)
}

func TestToken_NotConnected(t *testing.T) {
	store, _ := setupStore(t, nil)

	_, err := store.Token(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestToken_RefreshFlow(t *testing.T) {
	store, mr := setupStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/oauth/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "old-refresh", r.PostForm.Get("refresh_token"))

		_, _ = w.Write([]byte(`{"access_token": "new-access", "refresh_token": "new-refresh", "expires_in": 21600}`))
	})
	require.NoError(t, mr.Set("marketplace:refresh_token", "old-refresh"))

	token, err := store.Token(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "new-access", token)

	stored, err := mr.Get("marketplace:access_token")
	require.NoError(t, err)
	assert.Equal(t, "new-access", stored)

	refresh, err := mr.Get("marketplace:refresh_token")
	require.NoError(t, err)
	assert.Equal(t, "new-refresh", refresh, "a rotated refresh token replaces the stored one")

	ttl := mr.TTL("marketplace:access_token")
	assert.Equal(t, 21600*time.Second-5*time.Minute, ttl, "expiry margin shaved off expires_in")
}

func TestToken_RefreshRejected(t *testing.T) {
	store, mr := setupStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "invalid_grant"}`))
	})
	require.NoError(t, mr.Set("marketplace:refresh_token", "stale-refresh"))

	_, err := store.Token(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestToken_OAuthServerError(t *testing.T) {
	store, mr := setupStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	require.NoError(t, mr.Set("marketplace:refresh_token", "refresh"))

	_, err := store.Token(context.Background())

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrUnauthorized, "transient upstream failures are not credential failures")
}

func TestExchange(t *testing.T) {
	store, mr := setupStore(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "auth-code-42", r.PostForm.Get("code"))
		assert.Equal(t, "https://app.example.com/callback", r.PostForm.Get("redirect_uri"))

		_, _ = w.Write([]byte(`{"access_token": "first-access", "refresh_token": "first-refresh", "expires_in": 21600}`))
	})

	err := store.Exchange(context.Background(), "auth-code-42")

	require.NoError(t, err)
	access, err := mr.Get("marketplace:access_token")
	require.NoError(t, err)
	assert.Equal(t, "first-access", access)

	refresh, err := mr.Get("marketplace:refresh_token")
	require.NoError(t, err)
	assert.Equal(t, "first-refresh", refresh)
}

func TestExchange_EmptyAccessToken(t *testing.T) {
	store, _ := setupStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"expires_in": 21600}`))
	})

	err := store.Exchange(context.Background(), "auth-code-42")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty access token")
}

func TestConnected(t *testing.T) {
	store, mr := setupStore(t, nil)

	connected, err := store.Connected(context.Background())
	require.NoError(t, err)
	assert.False(t, connected)

	require.NoError(t, mr.Set("marketplace:refresh_token", "refresh"))

	connected, err = store.Connected(context.Background())
	require.NoError(t, err)
	assert.True(t, connected)
}
