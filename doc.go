// Package authcore provides a framework-agnostic credential and session
// lifecycle engine: bcrypt password hashing, HMAC-signed JWT access and
// refresh tokens, Redis-backed token revocation, rotation-on-refresh, and
// role-based access checks against live user records.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// the store interfaces ([UserStore], [RoleStore], [RevocationStore]), and
// value types (User, Role, LoginResult, MetricsSnapshot). Flow orchestration,
// rate limiting, and audit dispatch live under internal/ and are never
// exported. Persistence is consumed, not owned: the host application brings
// its own UserStore and RoleStore.
//
// # What this package must NOT do
//
//   - Store or migrate user records itself.
//   - Expose Redis clients or key layouts in its public API.
//   - Trust token claims over the stored user record for authorization.
//
// # Availability contract
//
// Revocation reads fail open: if the blacklist backend is unreachable,
// ResolveUser and RefreshAccessToken proceed as if the token were not
// revoked. Revocation writes fail closed: a rotation that cannot consume the
// presented refresh token returns an error rather than risk double issue.
package authcore
