package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"roster/cmd/identity"
)

// Claims is the identity envelope embedded in both token classes.
type Claims struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Manager issues and verifies access and refresh JWTs.
type Manager struct {
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	clockSkew  time.Duration

	accessSecret  []byte
	refreshSecret []byte
}

// NewManager builds a Manager from a validated Config.
func NewManager(cfg Config) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Manager{
		issuer:        cfg.Issuer,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		clockSkew:     cfg.ClockSkew,
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
	}, nil
}

// IssueAccess signs a short-lived access token for u.
func (m *Manager) IssueAccess(u identity.User, now time.Time) (string, time.Time, error) {
	return m.issue(u, now, m.accessTTL, m.accessSecret)
}

// IssueRefresh signs a long-lived refresh token for u.
func (m *Manager) IssueRefresh(u identity.User, now time.Time) (string, time.Time, error) {
	return m.issue(u, now, m.refreshTTL, m.refreshSecret)
}

// VerifyAccess validates an access token at the given instant.
func (m *Manager) VerifyAccess(tok string, now time.Time) (Claims, error) {
	return m.verify(tok, now, m.accessSecret)
}

// VerifyRefresh validates a refresh token at the given instant.
func (m *Manager) VerifyRefresh(tok string, now time.Time) (Claims, error) {
	return m.verify(tok, now, m.refreshSecret)
}

func (m *Manager) issue(u identity.User, now time.Time, ttl time.Duration, secret []byte) (string, time.Time, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	exp := now.Add(ttl)

	claims := Claims{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (m *Manager) verify(tok string, now time.Time, secret []byte) (Claims, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(tok, &claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(m.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalidToken
	}
	if !parsed.Valid || claims.UserID == 0 {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
