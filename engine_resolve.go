package authcore

import (
	"context"
	"time"

	"github.com/MrEthical07/authcore/internal/flows"
	"github.com/MrEthical07/authcore/token"
)

// ResolveUser turns a bearer access token into the live user record.
//
// The token is checked for signature, expiry, kind, and revocation, then the
// user is reloaded from the store. Claims embedded in the token never stand
// in for the stored record: a user deactivated after the token was issued is
// rejected with ErrInactiveUser even though the token itself still verifies.
func (e *Engine) ResolveUser(ctx context.Context, accessToken string) (*User, error) {
	if e == nil || e.users == nil {
		return nil, ErrEngineNotReady
	}

	start := time.Now()

	var resolved *User

	result := flows.RunResolve(ctx, accessToken, flows.ResolveDeps{
		Parse: func(s string) (*token.Claims, error) {
			return e.tokens.Parse(s, true)
		},
		IsRevoked:     e.revocations.IsRevoked,
		UserRevokedAt: e.revocations.UserRevokedAt,
		GetUserByID: func(ctx context.Context, subject string) (*flows.Account, error) {
			user, err := e.userBySubject(ctx, subject)
			if err != nil {
				return nil, err
			}
			resolved = user
			return accountView(user), nil
		},
		Warn: e.warnf,
	})

	if e.metrics != nil {
		e.metrics.Observe(MetricResolveLatency, time.Since(start))
	}

	switch result.Failure {
	case flows.ResolveFailureNone:
		e.metricInc(MetricGuardAllowed)
		return resolved, nil
	case flows.ResolveFailureExpired:
		e.metricInc(MetricGuardDenied)
		return nil, ErrTokenExpired
	case flows.ResolveFailureRevoked:
		e.metricInc(MetricGuardDenied)
		e.emitAudit(ctx, auditEventAccessDenied, false, result.UserID, "", result.JTI, ErrTokenRevoked, nil)
		return nil, ErrTokenRevoked
	case flows.ResolveFailureUserMissing:
		e.metricInc(MetricGuardDenied)
		if result.Err != nil {
			return nil, ErrServiceUnavailable
		}
		// A verified token whose subject no longer exists is just an invalid
		// token to the caller; deleted accounts are not discoverable here.
		return nil, ErrTokenInvalid
	case flows.ResolveFailureUserInactive:
		e.metricInc(MetricGuardDenied)
		e.emitAudit(ctx, auditEventAccessDenied, false, result.UserID, "", result.JTI, ErrInactiveUser, nil)
		return nil, ErrInactiveUser
	default:
		e.metricInc(MetricGuardDenied)
		return nil, ErrTokenInvalid
	}
}

// Authorize resolves the bearer token and then requires the user to pass
// the supplied role predicate. Membership is evaluated against the stored
// record, not the token's role claim.
func (e *Engine) Authorize(ctx context.Context, accessToken string, predicate RolePredicate) (*User, error) {
	user, err := e.ResolveUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	if predicate != nil {
		if err := predicate(user); err != nil {
			e.metricInc(MetricGuardDenied)
			e.emitAudit(ctx, auditEventAccessDenied, false, user.SubjectID(), user.Email, "", ErrPermissionDenied, nil)
			return nil, err
		}
	}

	return user, nil
}
