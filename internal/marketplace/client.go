package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	apperrors "github.com/MxSGameJPS/minhaloja-valorfinal/pkg/errors"
)

// Doer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy this.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// TokenSource supplies a valid bearer token for marketplace calls, refreshing
// transparently as needed. An error means no credential is available.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Config holds the marketplace client configuration.
type Config struct {
	BaseURL  string
	SiteID   string
	SellerID string
}

// Client talks to the marketplace REST API.
type Client struct {
	baseURL  string
	siteID   string
	sellerID string
	doer     Doer
	tokens   TokenSource
	logger   *slog.Logger
}

// NewClient creates a marketplace API client.
func NewClient(cfg Config, doer Doer, tokens TokenSource, logger *slog.Logger) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		siteID:   cfg.SiteID,
		sellerID: cfg.SellerID,
		doer:     doer,
		tokens:   tokens,
		logger:   logger,
	}
}

// SiteID returns the marketplace site this client operates on.
func (c *Client) SiteID() string {
	return c.siteID
}

// SellerID returns the seller account this client operates as.
func (c *Client) SellerID() string {
	return c.sellerID
}

// do executes an authenticated request and decodes a 2xx JSON response into
// out (if non-nil). Non-2xx responses are translated into an *APIError.
func (c *Client) do(ctx context.Context, req *http.Request, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return apperrors.Unauthorized("no valid marketplace credential available")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call marketplace: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode marketplace response: %w", err)
	}
	return nil
}

// get executes an authenticated GET against a marketplace path.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(ctx, req, out)
}
