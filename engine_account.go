package authcore

import (
	"context"
	"errors"

	"github.com/MrEthical07/authcore/internal/flows"
	"github.com/MrEthical07/authcore/password"
)

// CreateUser registers a new account with the configured default role.
//
// The uniqueness decision belongs to the store: a concurrent registration
// for the same email that loses the race still comes back as ErrUserExists,
// driven by the store's ErrDuplicateKey signal rather than the pre-check.
func (e *Engine) CreateUser(ctx context.Context, email, pass, username string) (*User, error) {
	if e == nil || e.users == nil || e.roles == nil {
		return nil, ErrEngineNotReady
	}

	var created *User

	result := flows.RunRegister(ctx, email, pass, username, flows.RegisterDeps{
		GetByEmail: func(ctx context.Context, email string) (*flows.Account, error) {
			user, err := e.users.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			return accountView(user), nil
		},
		HashPassword: e.passwordHash.Hash,
		EnsureRole: func(ctx context.Context) (string, error) {
			role, err := e.roles.GetOrCreate(ctx, e.config.Account.DefaultRole, e.config.Account.DefaultRoleDescription)
			if err != nil {
				return "", err
			}
			return role.Name, nil
		},
		Persist: func(ctx context.Context, email, username, hash, roleName string) (*flows.Account, error) {
			role, err := e.roles.GetByName(ctx, roleName)
			if err != nil {
				return nil, err
			}
			user := &User{
				Email:          email,
				Username:       username,
				HashedPassword: hash,
				IsActive:       true,
			}
			if role != nil {
				user.Roles = []Role{*role}
			}
			if err := e.users.Add(ctx, user); err != nil {
				return nil, err
			}
			if err := e.users.Flush(ctx); err != nil {
				return nil, err
			}
			created = user
			return accountView(user), nil
		},
		IsDuplicateKey: func(err error) bool {
			return errors.Is(err, ErrDuplicateKey)
		},
	})

	switch result.Failure {
	case flows.RegisterFailureNone:
		e.metricInc(MetricAccountCreationSuccess)
		e.emitAudit(ctx, auditEventAccountCreationSuccess, true, created.SubjectID(), email, "", nil, nil)
		return created, nil
	case flows.RegisterFailureExists:
		e.metricInc(MetricAccountCreationDuplicate)
		e.emitAudit(ctx, auditEventAccountCreationDuplicate, false, "", email, "", ErrUserExists, nil)
		return nil, ErrUserExists
	case flows.RegisterFailurePolicy:
		e.emitAudit(ctx, auditEventAccountCreationFailure, false, "", email, "", ErrPasswordPolicy, nil)
		if errors.Is(result.Err, password.ErrPolicy) {
			return nil, ErrPasswordPolicy
		}
		return nil, result.Err
	default:
		e.emitAudit(ctx, auditEventAccountCreationFailure, false, "", email, "", ErrServiceUnavailable, nil)
		return nil, ErrServiceUnavailable
	}
}

// ChangePassword verifies the current password before accepting the new
// one, then invalidates every token issued before the change.
func (e *Engine) ChangePassword(ctx context.Context, userID int64, oldPass, newPass string) error {
	if e == nil || e.users == nil {
		return ErrEngineNotReady
	}

	user, err := e.users.GetByID(ctx, userID)
	if err != nil {
		return ErrServiceUnavailable
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !e.passwordHash.Verify(oldPass, user.HashedPassword) {
		e.metricInc(MetricPasswordChangeInvalidOld)
		e.emitAudit(ctx, auditEventPasswordChangeInvalidOld, false, user.SubjectID(), user.Email, "", ErrInvalidCredentials, nil)
		return ErrInvalidCredentials
	}

	hash, err := e.passwordHash.Hash(newPass)
	if err != nil {
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, user.SubjectID(), user.Email, "", ErrPasswordPolicy, nil)
		if errors.Is(err, password.ErrPolicy) {
			return ErrPasswordPolicy
		}
		return err
	}

	user.HashedPassword = hash
	if err := e.users.Update(ctx, user); err != nil {
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, user.SubjectID(), user.Email, "", ErrServiceUnavailable, nil)
		return ErrServiceUnavailable
	}
	if err := e.users.Flush(ctx); err != nil {
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, user.SubjectID(), user.Email, "", ErrServiceUnavailable, nil)
		return ErrServiceUnavailable
	}

	// Outstanding tokens were issued against the old password. Best effort:
	// a blacklist outage should not roll back a completed password change.
	if err := e.RevokeAllUserTokens(ctx, userID); err != nil {
		e.warnf("token revocation after password change failed")
	}

	e.metricInc(MetricPasswordChangeSuccess)
	e.emitAudit(ctx, auditEventPasswordChangeSuccess, true, user.SubjectID(), user.Email, "", nil, nil)

	return nil
}

// GetUserByEmail describes the getuserbyemail operation and its observable behavior.
//
// GetUserByEmail may return an error when input validation, dependency calls, or security checks fail.
// GetUserByEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	if e == nil || e.users == nil {
		return nil, ErrEngineNotReady
	}

	user, err := e.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrServiceUnavailable
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetUserByID describes the getuserbyid operation and its observable behavior.
//
// GetUserByID may return an error when input validation, dependency calls, or security checks fail.
// GetUserByID does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) GetUserByID(ctx context.Context, id int64) (*User, error) {
	if e == nil || e.users == nil {
		return nil, ErrEngineNotReady
	}

	user, err := e.users.GetByID(ctx, id)
	if err != nil {
		return nil, ErrServiceUnavailable
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
