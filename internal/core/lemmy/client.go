// Package lemmy is a minimal client for the upstream Lemmy HTTP API.
// The service uses it for exactly two things: a login at startup to obtain a
// JWT, and per-request resolve_object calls confirming a submitted URL denotes
// a real federated object.
package lemmy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/hashicorp/go-retryablehttp"
)

type loginRequest struct {
	UsernameOrEmail string  `json:"username_or_email"`
	Password        string  `json:"password"`
	TOTP2FAToken    *string `json:"totp_2fa_token"`
}

type loginResponse struct {
	JWT string `json:"jwt"`
}

type apiError struct {
	Error string `json:"error"`
}

// Client talks to one upstream Lemmy instance
type Client struct {
	baseURL string
	http    *retryablehttp.Client
	logger  *slog.Logger

	mu  sync.RWMutex
	jwt string
}

// NewClient creates a client for the Lemmy API at baseURL (no trailing slash)
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.Logger = nil

	return &Client{
		baseURL: baseURL,
		http:    client,
		logger:  logger,
	}
}

// Login authenticates against the upstream API and stores the session JWT
// for subsequent resolve_object calls
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(loginRequest{
		UsernameOrEmail: username,
		Password:        password,
	})
	if err != nil {
		return fmt.Errorf("encoding login request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v3/user/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("lemmy login: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var login loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return fmt.Errorf("decoding login response: %w", err)
	}
	if login.JWT == "" {
		return ErrAuthFailed
	}

	c.mu.Lock()
	c.jwt = login.JWT
	c.mu.Unlock()

	c.logger.Info("authenticated with lemmy API", "base_url", c.baseURL)
	return nil
}

// ResolveObject asks the upstream API to resolve objectURL to a federated
// object. A nil return means the URL denotes a real post or comment; failures
// come back as a *ResolveError carrying the upstream status so the transport
// layer can propagate it.
func (c *Client) ResolveObject(ctx context.Context, objectURL string) error {
	c.mu.RLock()
	jwt := c.jwt
	c.mu.RUnlock()

	params := url.Values{}
	params.Set("q", objectURL)
	if jwt != "" {
		params.Set("auth", jwt)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v3/resolve_object?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building resolve request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("lemmy resolve_object: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var upstream apiError
		_ = json.NewDecoder(resp.Body).Decode(&upstream)
		detail := upstream.Error
		if detail == "" {
			detail = "External API Error"
		}
		return &ResolveError{StatusCode: resp.StatusCode, Detail: detail}
	}

	return nil
}
