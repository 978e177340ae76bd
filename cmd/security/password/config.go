package password

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Policy controls password validation boundaries.
//
// MaxLength is measured in bytes because bcrypt only consumes the first 72
// bytes of input; accepting longer passwords would silently truncate them.
type Policy struct {
	MinLength int
	MaxLength int
}

// Config is the single configuration surface for this package.
type Config struct {
	// Cost is the bcrypt cost factor. Higher is slower and stronger.
	Cost int

	Policy Policy
}

// maxBcryptInputBytes is the hard bcrypt input boundary.
const maxBcryptInputBytes = 72

// DefaultConfig returns a baseline suitable for interactive logins.
//
// The default minimum accepts any non-empty password: length policy belongs
// to the deployment, not the hasher, and registration must not reject inputs
// the rest of the stack accepts. Operators opt into a stricter floor via
// ROSTER_PASSWORD_MIN_LEN. The byte maximum is a hard bcrypt constraint and
// stays.
func DefaultConfig() Config {
	return Config{
		Cost: bcrypt.DefaultCost,
		Policy: Policy{
			MinLength: 1,
			MaxLength: maxBcryptInputBytes,
		},
	}
}

// FromEnv loads config from environment variables.
//
// Env surface:
// - ROSTER_PASSWORD_COST
// - ROSTER_PASSWORD_MIN_LEN
// - ROSTER_PASSWORD_MAX_LEN
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v, ok := os.LookupEnv("ROSTER_PASSWORD_COST"); ok {
		n, err := atoiInRange(v, bcrypt.MinCost, bcrypt.MaxCost)
		if err != nil {
			return Config{}, fmt.Errorf("ROSTER_PASSWORD_COST: %w", err)
		}
		cfg.Cost = n
	}

	if v, ok := os.LookupEnv("ROSTER_PASSWORD_MIN_LEN"); ok {
		n, err := atoiInRange(v, 1, maxBcryptInputBytes)
		if err != nil {
			return Config{}, fmt.Errorf("ROSTER_PASSWORD_MIN_LEN: %w", err)
		}
		cfg.Policy.MinLength = n
	}

	if v, ok := os.LookupEnv("ROSTER_PASSWORD_MAX_LEN"); ok {
		n, err := atoiInRange(v, 1, maxBcryptInputBytes)
		if err != nil {
			return Config{}, fmt.Errorf("ROSTER_PASSWORD_MAX_LEN: %w", err)
		}
		cfg.Policy.MaxLength = n
	}

	if cfg.Policy.MinLength > cfg.Policy.MaxLength {
		return Config{}, fmt.Errorf(
			"password policy invalid: min_len(%d) > max_len(%d)",
			cfg.Policy.MinLength,
			cfg.Policy.MaxLength,
		)
	}

	return cfg, nil
}

// Validate checks password policy. It does not mutate input.
func (c Config) Validate(plaintext string) error {
	n := len(plaintext)
	if n < c.Policy.MinLength {
		return ErrPasswordTooShort
	}
	if n > c.Policy.MaxLength || n > maxBcryptInputBytes {
		return ErrPasswordTooLong
	}
	return nil
}

func atoiInRange(s string, minVal, maxVal int) (int, error) {
	s = strings.TrimSpace(s)
	i64, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}

	i := int(i64)
	if i < minVal || i > maxVal {
		return 0, fmt.Errorf("out of range [%d..%d]", minVal, maxVal)
	}
	return i, nil
}
