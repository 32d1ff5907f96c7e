package authcore

import (
	"context"
	"strconv"
	"time"
)

// Logout blacklists the presented access and refresh tokens for the
// remainder of their lifetimes. Either argument may be empty. Tokens past
// expiry are accepted and skipped: logging out with an expired access token
// must still succeed.
func (e *Engine) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if e == nil || e.revocations == nil {
		return ErrEngineNotReady
	}

	var userID, jti string
	revoked := false

	for _, raw := range []string{accessToken, refreshToken} {
		if raw == "" {
			continue
		}
		claims, err := e.tokens.Parse(raw, false)
		if err != nil {
			e.emitAudit(ctx, auditEventLogout, false, "", "", "", ErrTokenInvalid, nil)
			return ErrTokenInvalid
		}
		userID = claims.Subject
		jti = claims.ID
		if claims.ID == "" || claims.ExpiresAt == nil {
			continue
		}
		if err := e.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			e.emitAudit(ctx, auditEventLogout, false, userID, "", claims.ID, ErrServiceUnavailable, nil)
			return ErrServiceUnavailable
		}
		revoked = true
	}

	if revoked {
		e.metricInc(MetricTokenRevoked)
	}
	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, userID, "", jti, nil, nil)

	return nil
}

// RevokeToken blacklists a single token until its natural expiry.
func (e *Engine) RevokeToken(ctx context.Context, tokenStr string) error {
	if e == nil || e.revocations == nil {
		return ErrEngineNotReady
	}

	claims, err := e.tokens.Parse(tokenStr, false)
	if err != nil {
		return ErrTokenInvalid
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return ErrTokenInvalid
	}

	if err := e.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return ErrServiceUnavailable
	}

	e.metricInc(MetricTokenRevoked)
	e.emitAudit(ctx, auditEventTokenRevoked, true, claims.Subject, "", claims.ID, nil, nil)

	return nil
}

// RevokeAllUserTokens invalidates every token issued to the user before
// now. The marker lives for the refresh TTL, the longest time any
// outstanding token could still be presented.
func (e *Engine) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	if e == nil || e.revocations == nil {
		return ErrEngineNotReady
	}

	subject := strconv.FormatInt(userID, 10)
	if err := e.revocations.RevokeUser(ctx, subject, time.Now().UTC(), e.config.JWT.RefreshTTL); err != nil {
		return ErrServiceUnavailable
	}

	e.metricInc(MetricUserTokensRevoked)
	e.emitAudit(ctx, auditEventUserTokensRevoked, true, subject, "", "", nil, nil)

	return nil
}
