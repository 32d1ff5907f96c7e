// Package middleware exposes net/http middleware adapters built on top of
// authcore.Engine bearer resolution.
//
// # Guards
//
//   - [Guard] authenticates the bearer token and injects the resolved user.
//   - [RequireRoles] additionally applies a role predicate against the
//     stored user record.
//
// Each guard reads the Authorization header, calls Engine.Authorize, and
// injects the resolved user into the request context for retrieval via
// [UserFromContext].
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself. All decisions are delegated to
// Engine.Authorize, and [StatusForError] is the single place engine errors
// become HTTP status codes.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Access Redis (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject from Engine.Authorize.
package middleware
