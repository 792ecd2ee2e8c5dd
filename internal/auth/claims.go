// Package auth handles the client side of authentication: decoding
// backend-issued access tokens and persisting credentials between runs.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/decollzoq/bookmark-service/internal/domain"
	"github.com/decollzoq/bookmark-service/internal/id"
)

// Claims are the fields the client cares about from a backend access token.
type Claims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// ErrMalformedToken is returned when a persisted credential cannot be decoded.
var ErrMalformedToken = errors.New("malformed access token")

// DecodeAccessToken extracts claims from a JWT without verifying the
// signature. The client never holds the signing key; the token is only
// trusted enough to bootstrap a provisional session, and every remote call
// is still authenticated server-side.
func DecodeAccessToken(tokenString string) (*Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	out := &Claims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}

	return out, nil
}

// UserFromToken reconstructs a provisional User from a persisted access
// token. The email supplied at login wins over anything in the token; the
// username is derived from the email's local part. When the token carries no
// subject a locally scoped ID is synthesized so the session can still be
// established.
func UserFromToken(tokenString, email string) (*domain.User, error) {
	claims, err := DecodeAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	if email == "" {
		email = claims.Email
	}
	if email == "" {
		email = claims.Subject
	}

	userID := claims.Subject
	if userID == "" {
		userID, err = id.Generate(id.PrefixUser)
		if err != nil {
			return nil, err
		}
	}

	return &domain.User{
		ID:       userID,
		Username: domain.UsernameFromEmail(email),
		Email:    email,
	}, nil
}
