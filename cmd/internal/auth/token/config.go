package token

import (
	"os"
	"time"
)

// Config defines runtime configuration for token issuance and verification.
//
// The two signing secrets are process-wide, loaded once at startup, and never
// mutated. They must be distinct: a refresh token must never verify as an
// access token or vice versa.
type Config struct {
	// Issuer is the value set in the "iss" claim of every token.
	Issuer string

	// AccessTTL is the access-token lifetime. The default is deliberately
	// short (15s, matching the reference behavior) to exercise the silent
	// refresh flow; production deployments override it.
	AccessTTL time.Duration

	// RefreshTTL is the refresh-token lifetime and the refresh cookie max-age.
	RefreshTTL time.Duration

	// ClockSkew is the leeway applied to time-based claims during
	// verification. Zero means exact expiry semantics.
	ClockSkew time.Duration

	// AccessSecret and RefreshSecret are the HMAC-SHA256 signing keys.
	AccessSecret  string
	RefreshSecret string
}

// DefaultConfig returns defaults matching the reference token lifecycle.
// Secrets have no default and must come from the environment.
func DefaultConfig() Config {
	return Config{
		Issuer:     "roster",
		AccessTTL:  15 * time.Second,
		RefreshTTL: 24 * time.Hour,
		ClockSkew:  0,
	}
}

// LoadConfigFromEnv loads token configuration from environment variables.
//
// Required:
//   - ROSTER_ACCESS_TOKEN_SECRET
//   - ROSTER_REFRESH_TOKEN_SECRET (must differ from the access secret)
//
// Optional (durations must be valid Go duration strings):
//   - ROSTER_AUTH_ISSUER
//   - ROSTER_AUTH_ACCESS_TTL
//   - ROSTER_AUTH_REFRESH_TTL
//   - ROSTER_AUTH_CLOCK_SKEW
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("ROSTER_AUTH_ISSUER"); v != "" {
		cfg.Issuer = v
	}

	if v := os.Getenv("ROSTER_AUTH_ACCESS_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.AccessTTL = d
	}

	if v := os.Getenv("ROSTER_AUTH_REFRESH_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.RefreshTTL = d
	}

	if v := os.Getenv("ROSTER_AUTH_CLOCK_SKEW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, ErrConfig
		}
		cfg.ClockSkew = d
	}

	cfg.AccessSecret = os.Getenv("ROSTER_ACCESS_TOKEN_SECRET")
	cfg.RefreshSecret = os.Getenv("ROSTER_REFRESH_TOKEN_SECRET")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return ErrConfig
	}
	if c.AccessSecret == c.RefreshSecret {
		return ErrConfig
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return ErrConfig
	}
	// A refresh token that outlives its access tokens is the whole point.
	if c.RefreshTTL < c.AccessTTL {
		return ErrConfig
	}
	return nil
}
