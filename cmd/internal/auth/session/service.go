package session

import (
	"context"
	"fmt"
	"time"

	"roster/cmd/identity"
	"roster/cmd/internal/auth/token"
	"roster/cmd/security/password"
)

// Service implements the high-level session operations for roster.
//
// It authenticates credentials, issues token pairs, and keeps the user's
// refresh slot in the credential store consistent with the lifecycle
// described in the package doc.
type Service struct {
	store  identity.Store
	tokens *token.Manager
	hasher password.Config
}

// Issued is the result of a successful login.
type Issued struct {
	User             identity.User
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// NewService constructs a Service from its collaborators.
func NewService(store identity.Store, tokens *token.Manager, hasher password.Config) *Service {
	return &Service{store: store, tokens: tokens, hasher: hasher}
}

// Login authenticates an email/password pair and opens a session.
//
// The fresh refresh token overwrites whatever was in the user's slot, so a
// login from a second client ends the first client's session.
func (s *Service) Login(ctx context.Context, now time.Time, email, plaintext string) (Issued, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if identity.IsNotFound(err) {
			return Issued{}, ErrUserNotFound
		}
		return Issued{}, err
	}

	ok, err := s.hasher.Verify(u.PasswordHash, plaintext)
	if err != nil {
		return Issued{}, fmt.Errorf("session: verify password: %w", err)
	}
	if !ok {
		return Issued{}, ErrInvalidCredentials
	}

	accessTok, accessExp, err := s.tokens.IssueAccess(u, now)
	if err != nil {
		return Issued{}, fmt.Errorf("session: issue access token: %w", err)
	}
	refreshTok, refreshExp, err := s.tokens.IssueRefresh(u, now)
	if err != nil {
		return Issued{}, fmt.Errorf("session: issue refresh token: %w", err)
	}

	if err := s.store.SetRefreshToken(ctx, u.ID, refreshTok, now); err != nil {
		return Issued{}, fmt.Errorf("session: persist refresh token: %w", err)
	}

	return Issued{
		User:             u,
		AccessToken:      accessTok,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshTok,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh mints a new access token for the session identified by refreshTok.
//
// The presented token must both match a stored slot and carry a valid,
// unexpired signature. The refresh token itself is not rotated.
func (s *Service) Refresh(ctx context.Context, now time.Time, refreshTok string) (accessTok string, accessExp time.Time, err error) {
	u, err := s.store.GetUserByRefreshToken(ctx, refreshTok)
	if err != nil {
		if identity.IsNotFound(err) || identity.IsInvalidInput(err) {
			return "", time.Time{}, ErrSessionNotFound
		}
		return "", time.Time{}, err
	}

	if _, err := s.tokens.VerifyRefresh(refreshTok, now); err != nil {
		// token.ErrExpired / token.ErrInvalidToken pass through for the
		// handler to translate.
		return "", time.Time{}, err
	}

	accessTok, accessExp, err = s.tokens.IssueAccess(u, now)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("session: issue access token: %w", err)
	}
	return accessTok, accessExp, nil
}

// Logout ends the session identified by refreshTok.
//
// A token that matches no stored slot means the session is already gone;
// that is reported as (false, nil), not an error.
func (s *Service) Logout(ctx context.Context, now time.Time, refreshTok string) (bool, error) {
	u, err := s.store.GetUserByRefreshToken(ctx, refreshTok)
	if err != nil {
		if identity.IsNotFound(err) || identity.IsInvalidInput(err) {
			return false, nil
		}
		return false, err
	}

	if err := s.store.ClearRefreshToken(ctx, u.ID, now); err != nil {
		return false, fmt.Errorf("session: clear refresh token: %w", err)
	}
	return true, nil
}
