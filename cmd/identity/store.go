package identity

import (
	"context"
	"time"
)

// User is roster's canonical account record.
// PasswordHash and RefreshToken must never be serialized to clients.
type User struct {
	ID    int64
	Name  string
	Email string
	// EmailNorm is the normalized email used for uniqueness checks.
	EmailNorm    string
	PasswordHash string

	// RefreshToken is the single active session slot. Nil means no session.
	RefreshToken *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateUserInput describes a registration request.
// PasswordHash must already be an opaque hash, not a plaintext password.
type CreateUserInput struct {
	Name         string
	Email        string
	PasswordHash string
	Now          time.Time
}

// UpdateUserInput mutates an existing user. Name and Email are always
// applied; PasswordHash only when non-nil.
type UpdateUserInput struct {
	Name         string
	Email        string
	PasswordHash *string
	Now          time.Time
}

// Store is the credential-store persistence boundary.
//
// Error contract:
//   - ConflictError (field "email") on uniqueness violations.
//   - NotFoundError / ErrNotFound when an id, email, or refresh token does
//     not match any row.
//   - OpError{Kind: ErrInvalidInput} for malformed inputs.
type Store interface {
	CreateUser(ctx context.Context, in CreateUserInput) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (User, error)
	DeleteUser(ctx context.Context, id int64) error

	// GetUserByRefreshToken finds the user whose stored slot equals token.
	GetUserByRefreshToken(ctx context.Context, token string) (User, error)

	// SetRefreshToken overwrites the user's refresh slot (login).
	SetRefreshToken(ctx context.Context, id int64, token string, now time.Time) error

	// ClearRefreshToken nulls the user's refresh slot (logout).
	ClearRefreshToken(ctx context.Context, id int64, now time.Time) error
}
