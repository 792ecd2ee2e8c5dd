// Package remote is the HTTP client for the bookmark backend. It owns bearer
// credential handling, including the one-shot silent token reissue on 401.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/decollzoq/bookmark-service/internal/auth"
)

const defaultTimeout = 30 * time.Second

// Client is a bookmark backend API client.
type Client struct {
	http    *http.Client
	baseURL string
	creds   auth.CredentialStore
	logger  *slog.Logger
}

// New creates a new backend client. The credential store supplies the bearer
// token for authenticated calls and receives refreshed tokens.
func New(baseURL string, timeout time.Duration, creds auth.CredentialStore, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		logger:  logger,
	}
}

// request describes one backend call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	authed bool
}

// do executes a request. Authenticated requests carry the stored access
// token; a 401 triggers exactly one silent reissue-and-retry, and only a
// failed reissue terminates the session.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	body, status, err := c.doOnce(ctx, r, "")
	if err != nil {
		return nil, err
	}
	if status != http.StatusUnauthorized || !r.authed {
		return c.checkStatus(status, body)
	}

	// One-shot reissue. Any failure here means the session is over.
	accessToken, err := c.reissue(ctx)
	if err != nil {
		_ = auth.ClearSession(c.creds)
		return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}

	body, status, err = c.doOnce(ctx, r, accessToken)
	if err != nil {
		return nil, err
	}
	return c.checkStatus(status, body)
}

// doOnce performs a single HTTP round trip. An explicit token overrides the
// stored one (used for the post-reissue retry).
func (c *Client) doOnce(ctx context.Context, r request, token string) ([]byte, int, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var reqBody io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if r.authed {
		if token == "" {
			token, _ = c.creds.Get(auth.KeyAccessToken)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug("backend request", "method", r.method, "path", r.path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// checkStatus maps a status code to a sentinel error, or returns the body.
func (c *Client) checkStatus(status int, body []byte) ([]byte, error) {
	switch {
	case status >= 200 && status < 300:
		return body, nil
	case status == http.StatusBadRequest:
		return nil, ErrBadRequest
	case status == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case status == http.StatusForbidden:
		return nil, ErrForbidden
	case status == http.StatusNotFound:
		return nil, ErrNotFound
	case status == http.StatusConflict:
		return nil, ErrConflict
	case status >= 500:
		return nil, ErrServer
	default:
		return nil, fmt.Errorf("unexpected status %d: %s", status, string(body))
	}
}

// reissue exchanges the stored refresh token for a new token pair and
// persists it. Returns the fresh access token.
func (c *Client) reissue(ctx context.Context) (string, error) {
	refreshToken, err := c.creds.Get(auth.KeyRefreshToken)
	if err != nil || refreshToken == "" {
		return "", errors.New("no refresh token")
	}

	body, status, err := c.doOnce(ctx, request{
		method: http.MethodPost,
		path:   "/auth/reissue",
		body:   map[string]string{"refreshToken": refreshToken},
	}, "")
	if err != nil {
		return "", err
	}
	if _, err := c.checkStatus(status, body); err != nil {
		return "", err
	}

	var pair TokenPair
	if err := json.Unmarshal(body, &pair); err != nil {
		return "", fmt.Errorf("parse token pair: %w", err)
	}

	if err := c.storeTokens(pair); err != nil {
		return "", err
	}

	c.logger.Debug("access token reissued")
	return pair.AccessToken, nil
}

// storeTokens persists a token pair to the credential store.
func (c *Client) storeTokens(pair TokenPair) error {
	if err := c.creds.Set(auth.KeyAccessToken, pair.AccessToken); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	if err := c.creds.Set(auth.KeyRefreshToken, pair.RefreshToken); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// getJSON runs an authenticated GET and decodes the response into dest.
func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, dest any) error {
	body, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query, authed: true})
	if err != nil {
		return wrapError(op, err)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return wrapError(op, fmt.Errorf("parse response: %w", err))
	}
	return nil
}
