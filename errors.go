package authcore

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is an exported constant or variable used by the authentication engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is an exported constant or variable used by the authentication engine.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is an exported constant or variable used by the authentication engine.
	ErrUserExists = errors.New("user already exists")
	// ErrInactiveUser is an exported constant or variable used by the authentication engine.
	ErrInactiveUser = errors.New("inactive user")
	// ErrPermissionDenied is an exported constant or variable used by the authentication engine.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrTokenInvalid is an exported constant or variable used by the authentication engine.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired is an exported constant or variable used by the authentication engine.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenRevoked is an exported constant or variable used by the authentication engine.
	//
	// Revocation is a refinement of invalidity: ErrTokenRevoked satisfies
	// errors.Is against ErrTokenInvalid, so callers that only distinguish
	// valid from invalid tokens need a single check.
	ErrTokenRevoked = fmt.Errorf("%w: revoked", ErrTokenInvalid)
	// ErrRoleNotFound is an exported constant or variable used by the authentication engine.
	ErrRoleNotFound = errors.New("role not found")
	// ErrPasswordPolicy is an exported constant or variable used by the authentication engine.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrDuplicateKey is an exported constant or variable used by the authentication engine.
	//
	// Store implementations wrap ErrDuplicateKey (or return an error satisfying
	// errors.Is against it) when a uniqueness constraint rejects a write. The
	// engine converts it into ErrUserExists on registration paths.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrLoginRateLimited is an exported constant or variable used by the authentication engine.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrRefreshRateLimited is an exported constant or variable used by the authentication engine.
	ErrRefreshRateLimited = errors.New("refresh rate limited")
	// ErrServiceUnavailable is an exported constant or variable used by the authentication engine.
	ErrServiceUnavailable = errors.New("auth backend unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not ready")
)
