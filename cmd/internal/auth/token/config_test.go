package token

import (
	"errors"
	"os"
	"testing"
	"time"
)

func clearTokenEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ROSTER_AUTH_ISSUER",
		"ROSTER_AUTH_ACCESS_TTL",
		"ROSTER_AUTH_REFRESH_TTL",
		"ROSTER_AUTH_CLOCK_SKEW",
		"ROSTER_ACCESS_TOKEN_SECRET",
		"ROSTER_REFRESH_TOKEN_SECRET",
	} {
		_ = os.Unsetenv(k)
	}
}

func TestLoadConfigFromEnv_MissingSecrets(t *testing.T) {
	clearTokenEnv(t)

	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestLoadConfigFromEnv_EqualSecretsRejected(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("ROSTER_ACCESS_TOKEN_SECRET", "same-secret")
	t.Setenv("ROSTER_REFRESH_TOKEN_SECRET", "same-secret")

	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("ROSTER_ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("ROSTER_REFRESH_TOKEN_SECRET", "refresh-secret")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}
	if cfg.Issuer != "roster" {
		t.Fatalf("issuer default mismatch: %q", cfg.Issuer)
	}
	if cfg.AccessTTL != 15*time.Second || cfg.RefreshTTL != 24*time.Hour {
		t.Fatalf("TTL defaults mismatch: %+v", cfg)
	}
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("ROSTER_ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("ROSTER_REFRESH_TOKEN_SECRET", "refresh-secret")
	t.Setenv("ROSTER_AUTH_ISSUER", "staging")
	t.Setenv("ROSTER_AUTH_ACCESS_TTL", "15m")
	t.Setenv("ROSTER_AUTH_REFRESH_TTL", "168h")
	t.Setenv("ROSTER_AUTH_CLOCK_SKEW", "30s")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}
	if cfg.Issuer != "staging" || cfg.AccessTTL != 15*time.Minute || cfg.RefreshTTL != 168*time.Hour || cfg.ClockSkew != 30*time.Second {
		t.Fatalf("override mismatch: %+v", cfg)
	}
}

func TestLoadConfigFromEnv_RefreshShorterThanAccess(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("ROSTER_ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("ROSTER_REFRESH_TOKEN_SECRET", "refresh-secret")
	t.Setenv("ROSTER_AUTH_ACCESS_TTL", "1h")
	t.Setenv("ROSTER_AUTH_REFRESH_TTL", "1m")

	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestLoadConfigFromEnv_BadDuration(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("ROSTER_ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("ROSTER_REFRESH_TOKEN_SECRET", "refresh-secret")
	t.Setenv("ROSTER_AUTH_ACCESS_TTL", "soon")

	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}
