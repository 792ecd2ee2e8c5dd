package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/decollzoq/bookmark-service/internal/auth"
)

// Login authenticates with the backend and persists the issued token pair
// plus the login email to the credential store.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": email, "password": password},
	})
	if err != nil {
		return nil, wrapError("login", err)
	}

	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("login", fmt.Errorf("parse response: %w", err))
	}

	if err := c.storeTokens(resp.TokenPair); err != nil {
		return nil, wrapError("login", err)
	}
	if err := c.creds.Set(auth.KeyUserEmail, email); err != nil {
		return nil, wrapError("login", err)
	}

	return &resp, nil
}

// Register creates a new account. The backend requires a verified email
// before registration succeeds (see SendVerificationCode / VerifyCode).
func (c *Client) Register(ctx context.Context, email, password, nickname string) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/users/register",
		body:   map[string]string{"email": email, "password": password, "name": nickname},
	})
	if err != nil {
		return wrapError("register", err)
	}
	return nil
}

// SendVerificationCode asks the backend to email a verification code.
func (c *Client) SendVerificationCode(ctx context.Context, email string) error {
	query := url.Values{}
	query.Set("email", email)

	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/email/send-code",
		query:  query,
	})
	if err != nil {
		return wrapError("sendVerificationCode", err)
	}
	return nil
}

// VerifyCode confirms an emailed verification code.
func (c *Client) VerifyCode(ctx context.Context, email, code string) error {
	query := url.Values{}
	query.Set("email", email)
	query.Set("code", code)

	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/email/verify-code",
		query:  query,
	})
	if err != nil {
		return wrapError("verifyCode", err)
	}
	return nil
}

// DeleteAccount removes the authenticated account after re-checking the
// password server-side.
func (c *Client) DeleteAccount(ctx context.Context, password string) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/users/delete-account",
		body:   map[string]string{"password": password},
		authed: true,
	})
	if err != nil {
		return wrapError("deleteAccount", err)
	}
	return nil
}
