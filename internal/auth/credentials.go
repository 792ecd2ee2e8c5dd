package auth

import "errors"

// Credential keys. Fixed names so a snapshot survives client upgrades.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUserEmail    = "userEmail"
)

// ErrNoCredential is returned when a requested credential is not stored.
var ErrNoCredential = errors.New("credential not found")

// CredentialStore is the persistent key-value capability the client uses for
// tokens. Implementations must treat values as opaque.
type CredentialStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// ClearSession removes every session credential. Removal of an absent key is
// not an error.
func ClearSession(cs CredentialStore) error {
	var firstErr error
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUserEmail} {
		if err := cs.Remove(key); err != nil && !errors.Is(err, ErrNoCredential) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
