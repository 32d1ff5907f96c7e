// Package blacklist provides the Redis-backed token revocation list.
//
// # Key layout
//
//   - <prefix>bl:<jti> — revoked-token marker, TTL = remaining token lifetime
//   - <prefix>ur:<user> — user-wide revocation timestamp (unix seconds)
//
// Entries self-expire, so the list stays bounded by outstanding-token
// lifetime and never needs explicit cleanup.
//
// # Architecture boundaries
//
// This package owns Redis operations and TTL arithmetic. Fail-open policy —
// what to do when Redis is unreachable — belongs to the Engine, which is why
// every method surfaces [ErrRedisUnavailable] instead of swallowing it.
//
// # What this package must NOT do
//
//   - Parse or interpret tokens (callers pass jti and expiry).
//   - Import authcore or any sibling package.
//   - Retry failed Redis calls.
package blacklist
