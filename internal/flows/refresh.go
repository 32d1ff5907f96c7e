package flows

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/authcore/token"
)

// RefreshFailureKind classifies refresh flow failures for root-level mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureDecode
	RefreshFailureWrongKind
	RefreshFailureExpired
	RefreshFailureRateLimited
	RefreshFailureRevoked
	RefreshFailureUserMissing
	RefreshFailureUserInactive
	RefreshFailureRevoke
	RefreshFailureIssue
)

// RefreshResult carries either the issued token pair or failure metadata.
type RefreshResult struct {
	Failure      RefreshFailureKind
	Err          error
	UserID       string
	JTI          string
	AccessToken  string
	RefreshToken string
}

type RefreshRateLimiter interface {
	CheckRefresh(ctx context.Context, jti string) error
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	Parse         func(string) (*token.Claims, error) // expiry verification disabled
	RateLimiter   RefreshRateLimiter
	IsRevoked     func(context.Context, string) (bool, error)
	Revoke        func(context.Context, string, time.Time) error
	UserRevokedAt func(context.Context, string) (time.Time, error)
	GetUserByID   func(context.Context, string) (*Account, error) // nil, nil when absent
	IssueAccess   func(sub, email string, roles []string) (string, error)
	IssueRefresh  func(sub string) (string, error)
	Warn          func(string, ...any)
}

// RunRefresh executes refresh-token rotation: validate, check revocation,
// reload the user, consume the presented token, issue a fresh pair.
//
// The presented jti is revoked BEFORE the new pair is issued. A crash in
// between leaves the user without a valid refresh token (forced re-login),
// which is the safe side of the narrow non-atomic window: one presented
// token must never yield two valid pairs.
func RunRefresh(ctx context.Context, refreshToken string, deps RefreshDeps) RefreshResult {
	claims, err := deps.Parse(refreshToken)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureDecode, Err: err}
	}

	if err := token.AssertKind(claims, token.KindRefresh); err != nil {
		return RefreshResult{Failure: RefreshFailureWrongKind, Err: err, JTI: claims.ID}
	}

	if claims.IsExpired() {
		return RefreshResult{Failure: RefreshFailureExpired, JTI: claims.ID, UserID: claims.Subject}
	}

	if deps.RateLimiter != nil && claims.ID != "" {
		if err := deps.RateLimiter.CheckRefresh(ctx, claims.ID); err != nil {
			return RefreshResult{Failure: RefreshFailureRateLimited, Err: err, JTI: claims.ID, UserID: claims.Subject}
		}
	}

	if claims.ID != "" {
		revoked, err := deps.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Fail-open: blacklist unavailability must not take refresh down.
			if deps.Warn != nil {
				deps.Warn("revocation check failed, proceeding fail-open")
			}
		} else if revoked {
			return RefreshResult{Failure: RefreshFailureRevoked, JTI: claims.ID, UserID: claims.Subject}
		}
	}

	if revokedAt := userRevocationMark(ctx, deps, claims.Subject); !revokedAt.IsZero() {
		if claims.IssuedAt != nil && !claims.IssuedAt.Time.After(revokedAt) {
			return RefreshResult{Failure: RefreshFailureRevoked, JTI: claims.ID, UserID: claims.Subject}
		}
	}

	account, err := deps.GetUserByID(ctx, claims.Subject)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureUserMissing, Err: err, JTI: claims.ID, UserID: claims.Subject}
	}
	if account == nil {
		return RefreshResult{Failure: RefreshFailureUserMissing, JTI: claims.ID, UserID: claims.Subject}
	}
	if !account.Active {
		return RefreshResult{Failure: RefreshFailureUserInactive, JTI: claims.ID, UserID: account.ID}
	}

	// Rotation: consume the presented token first. One-time use is the
	// anti-replay invariant: a refresh token, once used, can never be
	// used again even if stolen afterward.
	if claims.ID != "" && claims.ExpiresAt != nil {
		if err := deps.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			return RefreshResult{Failure: RefreshFailureRevoke, Err: err, JTI: claims.ID, UserID: account.ID}
		}
	}

	access, err := deps.IssueAccess(account.ID, account.Email, account.Roles)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureIssue, Err: err, JTI: claims.ID, UserID: account.ID}
	}

	refresh, err := deps.IssueRefresh(account.ID)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureIssue, Err: err, JTI: claims.ID, UserID: account.ID}
	}

	return RefreshResult{
		Failure:      RefreshFailureNone,
		UserID:       account.ID,
		JTI:          claims.ID,
		AccessToken:  access,
		RefreshToken: refresh,
	}
}

func userRevocationMark(ctx context.Context, deps RefreshDeps, userID string) time.Time {
	if deps.UserRevokedAt == nil || userID == "" {
		return time.Time{}
	}

	revokedAt, err := deps.UserRevokedAt(ctx, userID)
	if err != nil {
		if deps.Warn != nil && !errors.Is(err, context.Canceled) {
			deps.Warn("user revocation check failed, proceeding fail-open")
		}
		return time.Time{}
	}

	return revokedAt
}
