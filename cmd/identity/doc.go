// Package identity is roster's credential store boundary.
//
// It defines the canonical User record, the Store persistence contract, and
// two implementations: a Postgres-backed store (pgx) and an in-memory store
// used for dev mode and tests.
//
// Design notes:
//   - Email is the login identifier; uniqueness is enforced on its normalized
//     (lower-cased, trimmed) form.
//   - The refresh token occupies a single nullable slot per user. Login
//     overwrites it, logout clears it. Concurrent logins race on the slot and
//     the last writer wins; this is the documented single-session model, not
//     a bug.
//   - Password hashes are opaque to this package; hashing happens in
//     cmd/security/password before values reach the store.
//
// The Postgres implementation expects the following table (schema is
// configurable, default "roster"; migrations are managed out-of-band):
//
//	CREATE TABLE roster.users (
//	    id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//	    name          TEXT        NOT NULL,
//	    email         TEXT        NOT NULL,
//	    email_norm    TEXT        NOT NULL UNIQUE,
//	    password_hash TEXT        NOT NULL,
//	    refresh_token TEXT,
//	    created_at    TIMESTAMPTZ NOT NULL,
//	    updated_at    TIMESTAMPTZ NOT NULL
//	);
package identity
