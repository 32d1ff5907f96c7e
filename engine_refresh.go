package authcore

import (
	"context"
	"errors"

	"github.com/MrEthical07/authcore/internal/flows"
	"github.com/MrEthical07/authcore/internal/rate"
	"github.com/MrEthical07/authcore/token"
)

// RefreshAccessToken rotates a refresh token: the presented token is
// consumed and a fresh access and refresh pair is issued against the user's
// live record. A consumed or blacklisted token fails with ErrTokenRevoked.
func (e *Engine) RefreshAccessToken(ctx context.Context, refreshToken string) (string, string, error) {
	if e == nil || e.users == nil {
		return "", "", ErrEngineNotReady
	}

	var limiter flows.RefreshRateLimiter
	if e.rateLimiter != nil && e.config.Security.EnableRefreshThrottle {
		limiter = e.rateLimiter
	}

	result := flows.RunRefresh(ctx, refreshToken, flows.RefreshDeps{
		Parse: func(s string) (*token.Claims, error) {
			return e.tokens.Parse(s, false)
		},
		RateLimiter:   limiter,
		IsRevoked:     e.revocations.IsRevoked,
		Revoke:        e.revocations.Revoke,
		UserRevokedAt: e.revocations.UserRevokedAt,
		GetUserByID:   e.flowUserBySubject,
		IssueAccess:   e.tokens.IssueAccess,
		IssueRefresh:  e.tokens.IssueRefresh,
		Warn:          e.warnf,
	})

	switch result.Failure {
	case flows.RefreshFailureNone:
		e.metricInc(MetricRefreshSuccess)
		e.emitAudit(ctx, auditEventRefreshSuccess, true, result.UserID, "", result.JTI, nil, nil)
		return result.AccessToken, result.RefreshToken, nil

	case flows.RefreshFailureDecode, flows.RefreshFailureWrongKind:
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, result.UserID, "", result.JTI, ErrTokenInvalid, nil)
		return "", "", ErrTokenInvalid

	case flows.RefreshFailureExpired:
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, result.UserID, "", result.JTI, ErrTokenExpired, nil)
		return "", "", ErrTokenExpired

	case flows.RefreshFailureRateLimited:
		if !errors.Is(result.Err, rate.ErrRateLimited) {
			e.metricInc(MetricRefreshFailure)
			e.emitAudit(ctx, auditEventRefreshInvalid, false, result.UserID, "", result.JTI, ErrServiceUnavailable, nil)
			return "", "", ErrServiceUnavailable
		}
		e.metricInc(MetricRefreshRateLimited)
		e.emitAudit(ctx, auditEventRefreshRateLimited, false, result.UserID, "", result.JTI, ErrRefreshRateLimited, nil)
		return "", "", ErrRefreshRateLimited

	case flows.RefreshFailureRevoked:
		e.metricInc(MetricRefreshReuseDetected)
		e.emitAudit(ctx, auditEventRefreshReuseDetected, false, result.UserID, "", result.JTI, ErrTokenRevoked, nil)
		return "", "", ErrTokenRevoked

	case flows.RefreshFailureUserMissing:
		e.metricInc(MetricRefreshFailure)
		if result.Err != nil {
			e.emitAudit(ctx, auditEventRefreshInvalid, false, result.UserID, "", result.JTI, ErrServiceUnavailable, nil)
			return "", "", ErrServiceUnavailable
		}
		e.emitAudit(ctx, auditEventRefreshInvalid, false, result.UserID, "", result.JTI, ErrTokenInvalid, nil)
		return "", "", ErrTokenInvalid

	case flows.RefreshFailureUserInactive:
		// Same surface as a deleted subject: the refresh endpoint does not
		// disclose whether an account is gone or merely disabled. The audit
		// trail keeps the distinction.
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, result.UserID, "", result.JTI, ErrInactiveUser, nil)
		return "", "", ErrTokenInvalid

	case flows.RefreshFailureRevoke:
		// Could not consume the presented token. Failing closed here keeps
		// the one-time-use property intact.
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, result.UserID, "", result.JTI, ErrServiceUnavailable, nil)
		return "", "", ErrServiceUnavailable

	default:
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, result.UserID, "", result.JTI, result.Err, nil)
		if result.Err != nil {
			return "", "", result.Err
		}
		return "", "", ErrTokenInvalid
	}
}
