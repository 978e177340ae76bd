// Package password provides password hashing and verification for roster.
//
// It wraps bcrypt (which embeds a fresh random salt in every hash) and adds:
// - Configurable hashing cost (via environment variables)
// - Password length policy validation
//
// Security notes:
// - Verification delegates to bcrypt's constant-time comparison.
// - Hash strings are treated as untrusted input during Verify; malformed
//   hashes are reported as ErrInvalidHash, never as a match.
package password
