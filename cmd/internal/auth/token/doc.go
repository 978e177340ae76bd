// Package token issues and verifies the signed, time-bound JWTs that carry
// roster's session identity.
//
// Two token classes exist, each signed with its own HMAC-SHA256 secret:
//   - access tokens: short-lived (seconds), presented as a bearer header on
//     every protected request, never persisted server-side;
//   - refresh tokens: long-lived (a day), persisted in the user's single
//     refresh slot and delivered only via an HTTP-only cookie.
//
// Expiry is always judged against the timestamp embedded in the token itself,
// never against external state.
package token
