// Package session implements roster's login/refresh/logout lifecycle.
//
// The refresh token is the durable session handle: it is persisted in the
// user's single refresh slot so the server can invalidate a session by
// clearing the field, which pure stateless JWTs cannot do. The access token
// is a disposable short-lived capability recomputed on demand via Refresh.
//
// One slot per user means one active session per user: a login from a second
// client overwrites the slot and silently invalidates the first client's
// refresh token (its already-issued access tokens stay valid until their own
// expiry). Concurrent logins race on the slot and the last writer wins; this
// is the accepted, documented model. Refresh deliberately does not rotate
// the refresh token.
package session
