package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hash hashes a password with bcrypt and returns the encoded hash string.
// A fresh random salt is generated by bcrypt on every call, so hashing the
// same password twice yields different strings.
func (c Config) Hash(plaintext string) (string, error) {
	if err := c.Validate(plaintext); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), c.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify checks whether plaintext matches the given encoded hash.
// Returns (true, nil) for a match, (false, nil) for mismatch,
// and (false, ErrInvalidHash) for malformed/unsupported hashes.
func (c Config) Verify(encodedHash, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		// Truncated or non-bcrypt hash strings end up here.
		return false, ErrInvalidHash
	}
}
