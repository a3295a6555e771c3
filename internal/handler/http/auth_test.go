package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/token"
)

type oauthDoer struct {
	client *http.Client
}

func (d *oauthDoer) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	return d.client.Do(req.WithContext(ctx))
}

func newAuthRouter(t *testing.T, oauthHandler http.HandlerFunc) (http.Handler, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	var authURL string
	doer := token.Doer(&oauthDoer{client: http.DefaultClient})
	if oauthHandler != nil {
		server := httptest.NewServer(oauthHandler)
		t.Cleanup(server.Close)
		authURL = server.URL
		doer = &oauthDoer{client: server.Client()}
	}

	store := token.NewStore(rdb, doer, token.Config{
		AuthURL:      authURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "https://app.example.com/callback",
	}, newTestLogger())

	h := NewAuthHandler(store, newTestLogger())
	r := chi.NewRouter()
	r.Post("/api/v1/auth/exchange", h.Exchange)
	r.Get("/api/v1/auth/status", h.Status)
	return r, mr
}

func TestExchange(t *testing.T) {
	router, mr := newAuthRouter(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "TG-CODE-1", r.PostForm.Get("code"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"APP_USR-access","refresh_token":"TG-refresh","expires_in":21600}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/exchange", strings.NewReader(`{"code":"TG-CODE-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, true, resp["data"].(map[string]any)["connected"])

	stored, err := mr.Get("marketplace:refresh_token")
	require.NoError(t, err)
	assert.Equal(t, "TG-refresh", stored)
}

func TestExchange_MissingCode(t *testing.T) {
	router, _ := newAuthRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/exchange", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExchange_RejectedCode(t *testing.T) {
	router, _ := newAuthRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/exchange", strings.NewReader(`{"code":"TG-EXPIRED"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatus_NotConnected(t *testing.T) {
	router, _ := newAuthRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/status", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, false, resp["data"].(map[string]any)["connected"])
}

func TestStatus_Connected(t *testing.T) {
	router, mr := newAuthRouter(t, nil)
	require.NoError(t, mr.Set("marketplace:refresh_token", "TG-refresh"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/status", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, true, resp["data"].(map[string]any)["connected"])
}
