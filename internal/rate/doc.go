// Package rate provides Redis-backed fixed-window throttles for the login and
// refresh paths.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key prefixes:
//   - al:  — login per-email
//   - ali: — login per-IP
//   - ar:  — refresh per-jti
//
// # What this package must NOT do
//
//   - Decide which operations are throttled (Engine config does).
//   - Be imported outside the authcore module.
package rate
