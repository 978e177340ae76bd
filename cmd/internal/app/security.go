package app

import (
	"errors"
	"fmt"

	"roster/cmd/internal/auth/token"
)

const minSecretBytes = 32

// ValidateSecurityConfig enforces the startup security policy.
//
// Fail-fast is intentional: silently running with weak signing keys in
// production is unacceptable.
func ValidateSecurityConfig(cfg Config, tok token.Config) error {
	if !cfg.RequireStrongSecrets {
		return nil
	}

	// Bytes, not runes: the secrets feed HMAC-SHA256 as raw key material.
	if len(tok.AccessSecret) < minSecretBytes {
		return fmt.Errorf("security policy: ROSTER_ACCESS_TOKEN_SECRET shorter than %d bytes", minSecretBytes)
	}
	if len(tok.RefreshSecret) < minSecretBytes {
		return fmt.Errorf("security policy: ROSTER_REFRESH_TOKEN_SECRET shorter than %d bytes", minSecretBytes)
	}
	if tok.AccessSecret == tok.RefreshSecret {
		return errors.New("security policy: access and refresh secrets must differ")
	}
	return nil
}
