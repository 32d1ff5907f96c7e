// Package flows contains pure-function orchestrators for the multi-step Engine
// operations: refresh rotation, registration, and bearer-token resolution.
//
// Each flow function accepts a typed dependency struct and returns a result
// carrying a failure kind for root-level error mapping. This design enables
// exhaustive unit testing with mock dependencies and keeps the Engine type
// thin.
//
// # Architecture boundaries
//
// Flow functions coordinate calls to the token codec, revocation store, rate
// limiter, and user store. They do NOT own any of these resources —
// ownership stays with the Engine.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import authcore (to avoid import cycles).
//   - Perform I/O directly — all I/O is mediated through dependency funcs.
package flows
