package domain

import "strings"

// User represents the identity of an authenticated account.
// Identity is established at login, registration, or credential decode and
// stays immutable for the lifetime of a session.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UsernameFromEmail derives a display username from an email address.
// The backend does not always return a user payload on login, so the
// client falls back to the local part of the email.
func UsernameFromEmail(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
