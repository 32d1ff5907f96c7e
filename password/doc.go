// Package password implements one-way password hashing and verification with bcrypt.
//
// # Policy
//
// [Hasher.Hash] enforces the credential policy before hashing: a configurable
// minimum length and bcrypt's 72-byte input ceiling. Violations return
// [ErrPolicy]-wrapped errors so callers can distinguish weak credentials from
// infrastructure failures.
//
// [Hasher.Verify] never returns an error: malformed or foreign-format hashes
// verify as false. Constant-time comparison is delegated to the bcrypt
// primitive.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Where hashes are stored,
// and when they are replaced, is the Engine's business.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive hashes.
//   - Import any other authcore package.
//   - Log plaintext passwords.
package password
