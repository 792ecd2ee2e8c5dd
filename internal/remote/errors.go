package remote

import (
	"errors"
	"fmt"
)

// Sentinel errors for backend API operations.
var (
	ErrNotFound       = errors.New("remote: not found")
	ErrBadRequest     = errors.New("remote: bad request")
	ErrUnauthorized   = errors.New("remote: unauthorized")
	ErrForbidden      = errors.New("remote: forbidden")
	ErrConflict       = errors.New("remote: conflict")
	ErrServer         = errors.New("remote: server error")
	ErrSessionExpired = errors.New("remote: session expired")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op  string // Operation: "login", "createBookmark", ...
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op string, err error) error {
	return &Error{Op: op, Err: err}
}
