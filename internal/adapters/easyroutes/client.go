package easyroutes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://easyroutes.roundtrip.ai/api/2024-07"

	// Tokens are treated as expired this long before the reported expiry,
	// so a request is never issued with a token about to lapse mid-flight.
	tokenExpiryBuffer = 60 * time.Second

	// Used when the authenticate response omits expiresInSeconds.
	defaultTokenTTL = 3600 * time.Second
)

// Client talks to the route-planning service.
//
// It owns bearer-token acquisition and expiry tracking; on a 401 it
// re-authenticates exactly once and retries the call once. The token is
// instance state: callers construct a fresh Client per request, so tokens
// are never shared or cached across requests.
//
// Client is not safe for concurrent use.
type Client struct {
	session      *http.Client
	baseURL      string
	clientID     string
	clientSecret string

	accessToken    string
	tokenExpiresAt time.Time

	now func() time.Time
}

func NewClient(clientID, clientSecret string) (*Client, error) {
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(clientSecret) == "" {
		return nil, errors.New("route service credentials not configured")
	}

	return &Client{
		session:      &http.Client{Timeout: 15 * time.Second},
		baseURL:      defaultBaseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		now:          time.Now,
	}, nil
}

type authResponse struct {
	AccessToken      string `json:"accessToken"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
}

// Authenticate exchanges the client credentials for a short-lived bearer
// token and records its expiry minus the safety buffer.
func (c *Client) Authenticate(ctx context.Context) error {
	payload, err := json.Marshal(map[string]string{
		"clientId":     c.clientID,
		"clientSecret": c.clientSecret,
	})
	if err != nil {
		return fmt.Errorf("authenticate: marshal credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/authenticate", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("authenticate: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return &AuthError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var decoded authResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("authenticate: decode response: %w", err)
	}
	if decoded.AccessToken == "" {
		return fmt.Errorf("authenticate: response missing accessToken")
	}

	ttl := defaultTokenTTL
	if decoded.ExpiresInSeconds > 0 {
		ttl = time.Duration(decoded.ExpiresInSeconds) * time.Second
	}

	c.accessToken = decoded.AccessToken
	c.tokenExpiresAt = c.now().Add(ttl - tokenExpiryBuffer)

	return nil
}

// ensureAuthenticated acquires a token when none is held or the current
// one has passed its buffered expiry.
func (c *Client) ensureAuthenticated(ctx context.Context) error {
	if c.accessToken != "" && c.now().Before(c.tokenExpiresAt) {
		return nil
	}
	return c.Authenticate(ctx)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	return req, nil
}

// request issues an authenticated call and decodes the JSON response into
// out. On a 401 it re-authenticates once and retries the identical request
// once; any other non-success (including the retry's) becomes an APIError.
// Strictly at most one retry: a second failure surfaces immediately.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, out any) error {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, method, path, query)
	if err != nil {
		return err
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if err := c.Authenticate(ctx); err != nil {
			return err
		}

		req, err = c.newRequest(ctx, method, path, query)
		if err != nil {
			return err
		}

		resp, err = c.session.Do(req)
		if err != nil {
			return fmt.Errorf("execute retried request: %w", err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
