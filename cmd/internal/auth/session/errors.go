package session

import "errors"

var (
	// ErrUserNotFound is returned by Login when no user has the given email.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned by Login on a password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionNotFound is returned by Refresh when the presented refresh
	// token does not match any user's stored slot (logged out or replaced
	// by a newer login).
	ErrSessionNotFound = errors.New("session not found")
)
