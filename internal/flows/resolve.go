package flows

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/authcore/token"
)

// ResolveFailureKind classifies guard failures for root-level mapping.
type ResolveFailureKind int

const (
	ResolveFailureNone ResolveFailureKind = iota
	ResolveFailureDecode
	ResolveFailureExpired
	ResolveFailureWrongKind
	ResolveFailureRevoked
	ResolveFailureUserMissing
	ResolveFailureUserInactive
)

// ResolveResult carries the resolved account or failure metadata.
type ResolveResult struct {
	Failure ResolveFailureKind
	Err     error
	UserID  string
	JTI     string
	Claims  *token.Claims
	Account *Account
}

// ResolveDeps captures bearer-resolution flow dependencies.
type ResolveDeps struct {
	Parse         func(string) (*token.Claims, error) // expiry verification enabled
	IsRevoked     func(context.Context, string) (bool, error)
	UserRevokedAt func(context.Context, string) (time.Time, error)
	GetUserByID   func(context.Context, string) (*Account, error)
	Warn          func(string, ...any)
}

// RunResolve turns a bearer access token into a live account. Authorization
// decisions downstream re-check live role membership, not the token's
// embedded role claim.
func RunResolve(ctx context.Context, accessToken string, deps ResolveDeps) ResolveResult {
	claims, err := deps.Parse(accessToken)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return ResolveResult{Failure: ResolveFailureExpired, Err: err}
		}
		return ResolveResult{Failure: ResolveFailureDecode, Err: err}
	}

	if err := token.AssertKind(claims, token.KindAccess); err != nil {
		return ResolveResult{Failure: ResolveFailureWrongKind, Err: err, JTI: claims.ID}
	}

	if claims.ID != "" {
		revoked, err := deps.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Fail-open: availability of protected reads beats perfect
			// revocation enforcement.
			if deps.Warn != nil {
				deps.Warn("revocation check failed, proceeding fail-open")
			}
		} else if revoked {
			return ResolveResult{Failure: ResolveFailureRevoked, JTI: claims.ID, UserID: claims.Subject}
		}
	}

	if deps.UserRevokedAt != nil {
		revokedAt, err := deps.UserRevokedAt(ctx, claims.Subject)
		if err != nil {
			if deps.Warn != nil {
				deps.Warn("user revocation check failed, proceeding fail-open")
			}
		} else if !revokedAt.IsZero() && claims.IssuedAt != nil && !claims.IssuedAt.Time.After(revokedAt) {
			return ResolveResult{Failure: ResolveFailureRevoked, JTI: claims.ID, UserID: claims.Subject}
		}
	}

	account, err := deps.GetUserByID(ctx, claims.Subject)
	if err != nil {
		return ResolveResult{Failure: ResolveFailureUserMissing, Err: err, JTI: claims.ID, UserID: claims.Subject}
	}
	if account == nil {
		return ResolveResult{Failure: ResolveFailureUserMissing, JTI: claims.ID, UserID: claims.Subject}
	}
	if !account.Active {
		return ResolveResult{Failure: ResolveFailureUserInactive, JTI: claims.ID, UserID: account.ID}
	}

	return ResolveResult{
		Failure: ResolveFailureNone,
		UserID:  account.ID,
		JTI:     claims.ID,
		Claims:  claims,
		Account: account,
	}
}
