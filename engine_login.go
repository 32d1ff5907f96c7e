package authcore

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/authcore/internal/rate"
)

// Authenticate verifies an email and password pair against the user store.
//
// A missing user, a wrong password and a deactivated account all produce
// the same ErrInvalidCredentials so callers cannot probe which accounts
// exist or which ones were disabled. ResolveUser reports ErrInactiveUser
// instead; by then the caller already holds proof of a past
// authentication.
//
// On success the returned user carries a fresh LastLogin stamp in memory.
// Persisting it belongs to the caller; LoginUser does so once per login.
func (e *Engine) Authenticate(ctx context.Context, email, pass string) (*User, error) {
	if e == nil || e.users == nil {
		return nil, ErrEngineNotReady
	}

	ip := clientIPFromContext(ctx)

	if e.loginThrottleEnabled() {
		if err := e.rateLimiter.CheckLogin(ctx, email, ip); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				e.metricInc(MetricLoginRateLimited)
				e.emitAudit(ctx, auditEventLoginRateLimited, false, "", email, "", ErrLoginRateLimited, nil)
				return nil, ErrLoginRateLimited
			}
			e.warnf("login throttle check failed, proceeding fail-open")
		}
	}

	user, err := e.users.GetByEmail(ctx, email)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", email, "", ErrServiceUnavailable, nil)
		return nil, ErrServiceUnavailable
	}
	if user == nil {
		e.recordFailedLogin(ctx, email, ip)
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", email, "", ErrInvalidCredentials, nil)
		return nil, ErrInvalidCredentials
	}

	if !e.passwordHash.Verify(pass, user.HashedPassword) {
		e.recordFailedLogin(ctx, email, ip)
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.SubjectID(), email, "", ErrInvalidCredentials, nil)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.SubjectID(), email, "", ErrInactiveUser, nil)
		return nil, ErrInvalidCredentials
	}

	if e.passwordHash.NeedsRehash(user.HashedPassword) {
		if upgraded, err := e.passwordHash.Hash(pass); err == nil {
			user.HashedPassword = upgraded
			if err := e.users.Update(ctx, user); err != nil {
				e.warnf("password hash upgrade update failed")
			}
		} else {
			e.warnf("password hash upgrade generation failed")
		}
	}

	if e.loginThrottleEnabled() {
		if err := e.rateLimiter.ResetLogin(ctx, email, ip); err != nil {
			e.warnf("login throttle reset failed")
		}
	}

	user.LastLogin = time.Now().UTC()

	return user, nil
}

// LoginUser authenticates and, on success, stamps last login and issues an
// access and refresh token pair.
func (e *Engine) LoginUser(ctx context.Context, email, pass string) (*LoginResult, error) {
	user, err := e.Authenticate(ctx, email, pass)
	if err != nil {
		return nil, err
	}

	// Authenticate stamped LastLogin in memory; commit it exactly once per
	// login, without failing a login the user already earned.
	if err := e.users.Update(ctx, user); err != nil {
		e.warnf("last login update failed")
	} else if err := e.users.Flush(ctx); err != nil {
		e.warnf("last login flush failed")
	}

	access, refresh, err := e.issueTokenPair(user)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.SubjectID(), email, "", err, nil)
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.SubjectID(), email, "", nil, nil)

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		User:         user,
	}, nil
}

func (e *Engine) issueTokenPair(user *User) (access, refresh string, err error) {
	access, err = e.tokens.IssueAccess(user.SubjectID(), user.Email, user.RoleNames())
	if err != nil {
		return "", "", err
	}
	refresh, err = e.tokens.IssueRefresh(user.SubjectID())
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (e *Engine) loginThrottleEnabled() bool {
	return e.rateLimiter != nil &&
		(e.config.Security.EnableLoginThrottle || e.config.Security.EnableIPThrottle)
}

func (e *Engine) recordFailedLogin(ctx context.Context, email, ip string) {
	if !e.loginThrottleEnabled() {
		return
	}
	if err := e.rateLimiter.IncrementLogin(ctx, email, ip); err != nil && !errors.Is(err, rate.ErrRateLimited) {
		e.warnf("login throttle increment failed")
	}
}
