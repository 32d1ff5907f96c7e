package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxPassBytes is bcrypt's hard input ceiling; longer inputs would be
// silently truncated by the primitive, so they are rejected instead.
const maxPassBytes = 72

const defaultMinLength = 8

// ErrPolicy wraps all credential policy violations returned by [Hasher.Hash].
var ErrPolicy = errors.New("password policy violation")

// Config defines a public type used by authcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Cost      int
	MinLength int
}

// Hasher defines a public type used by authcore APIs.
//
// Hasher instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Hasher struct {
	config Config
}

// NewHasher describes the newhasher operation and its observable behavior.
//
// NewHasher may return an error when input validation, dependency calls, or security checks fail.
// NewHasher does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewHasher(cfg Config) (*Hasher, error) {
	if cfg.MinLength <= 0 {
		cfg.MinLength = defaultMinLength
	}
	if cfg.MinLength > maxPassBytes {
		return nil, errors.New("password minimum length exceeds 72 bytes")
	}
	if cfg.Cost < bcrypt.MinCost || cfg.Cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return &Hasher{config: cfg}, nil
}

// Hash describes the hash operation and its observable behavior.
//
// Hash may return an error when input validation, dependency calls, or security checks fail.
// Hash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (h *Hasher) Hash(password string) (string, error) {
	// Password processing uses raw string bytes exactly as provided (no Unicode normalization).
	if len(password) < h.config.MinLength {
		return "", fmt.Errorf("%w: must be at least %d characters", ErrPolicy, h.config.MinLength)
	}
	if len(password) > maxPassBytes {
		return "", fmt.Errorf("%w: must be at most %d bytes", ErrPolicy, maxPassBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.config.Cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// Verify describes the verify operation and its observable behavior.
//
// Verify reports whether password matches encodedHash. It never returns an
// error: malformed hashes, oversize inputs, and cost mismatches all verify
// as false.
func (h *Hasher) Verify(password string, encodedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}

// NeedsRehash describes the needsrehash operation and its observable behavior.
//
// NeedsRehash reports whether the stored hash was produced with a lower cost
// than currently configured, so callers can re-hash on the next successful
// login. Malformed hashes report false; they fail Verify anyway.
func (h *Hasher) NeedsRehash(encodedHash string) bool {
	cost, err := bcrypt.Cost([]byte(encodedHash))
	if err != nil {
		return false
	}

	return cost < h.config.Cost
}
