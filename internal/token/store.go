// Package token implements the marketplace credential collaborator: a
// Redis-backed store of OAuth access/refresh tokens with transparent refresh.
package token

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/MxSGameJPS/minhaloja-valorfinal/pkg/errors"
)

const (
	accessTokenKey  = "marketplace:access_token"
	refreshTokenKey = "marketplace:refresh_token"

	// expiryMargin is shaved off the platform's expires_in so we refresh
	// before the token actually dies mid-request.
	expiryMargin = 5 * time.Minute
)

// Doer executes HTTP requests.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Config holds the OAuth client configuration for the marketplace.
type Config struct {
	AuthURL      string
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Store holds marketplace OAuth tokens in Redis and refreshes the access
// token on demand. Implements the marketplace client's TokenSource.
type Store struct {
	redis  *redis.Client
	doer   Doer
	cfg    Config
	logger *slog.Logger

	mu sync.Mutex // serializes in-process refreshes
}

// NewStore creates a token store.
func NewStore(rdb *redis.Client, doer Doer, cfg Config, logger *slog.Logger) *Store {
	return &Store{
		redis:  rdb,
		doer:   doer,
		cfg:    cfg,
		logger: logger,
	}
}

// Token returns a valid access token, refreshing it if the cached one has
// expired. Returns an unauthorized error when no credential is available.
func (s *Store) Token(ctx context.Context) (string, error) {
	access, err := s.redis.Get(ctx, accessTokenKey).Result()
	if err == nil && access != "" {
		return access, nil
	}
	if err != nil && err != redis.Nil {
		return "", fmt.Errorf("read access token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have refreshed while we waited on the lock.
	access, err = s.redis.Get(ctx, accessTokenKey).Result()
	if err == nil && access != "" {
		return access, nil
	}

	refresh, err := s.redis.Get(ctx, refreshTokenKey).Result()
	if err == redis.Nil || refresh == "" {
		return "", apperrors.Unauthorized("marketplace account is not connected")
	}
	if err != nil {
		return "", fmt.Errorf("read refresh token: %w", err)
	}

	return s.refresh(ctx, refresh)
}

// Exchange trades an authorization code for the initial token pair and
// stores it. Used once when the seller connects their account.
func (s *Store) Exchange(ctx context.Context, code string) error {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", s.cfg.RedirectURI)

	_, err := s.requestToken(ctx, form)
	return err
}

// refresh exchanges the refresh token for a new token pair. Caller must hold mu.
func (s *Store) refresh(ctx context.Context, refreshToken string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)
	form.Set("refresh_token", refreshToken)

	access, err := s.requestToken(ctx, form)
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "marketplace access token refreshed")
	return access, nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// requestToken posts the grant to the OAuth endpoint and persists the
// returned token pair.
func (s *Store) requestToken(ctx context.Context, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.cfg.AuthURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.doer.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("call oauth endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			s.logger.WarnContext(ctx, "oauth grant rejected",
				slog.Int("status", resp.StatusCode),
				slog.String("body", string(body)),
			)
			return "", apperrors.Unauthorized("marketplace credential was rejected, reconnect the account")
		}
		return "", fmt.Errorf("oauth endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var tokens tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tokens.AccessToken == "" {
		return "", fmt.Errorf("oauth endpoint returned empty access token")
	}

	ttl := time.Duration(tokens.ExpiresIn)*time.Second - expiryMargin
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := s.redis.Set(ctx, accessTokenKey, tokens.AccessToken, ttl).Err(); err != nil {
		return "", fmt.Errorf("store access token: %w", err)
	}
	if tokens.RefreshToken != "" {
		if err := s.redis.Set(ctx, refreshTokenKey, tokens.RefreshToken, 0).Err(); err != nil {
			return "", fmt.Errorf("store refresh token: %w", err)
		}
	}

	return tokens.AccessToken, nil
}

// Connected reports whether a refresh token is present, i.e. the seller has
// linked their marketplace account.
func (s *Store) Connected(ctx context.Context) (bool, error) {
	_, err := s.redis.Get(ctx, refreshTokenKey).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read refresh token: %w", err)
	}
	return true, nil
}
