package authcore

import "context"

// CreateRole ensures the named role exists and returns it. Creating a role
// that already exists returns the existing record unchanged.
func (e *Engine) CreateRole(ctx context.Context, name, description string) (*Role, error) {
	if e == nil || e.roles == nil {
		return nil, ErrEngineNotReady
	}

	role, err := e.roles.GetOrCreate(ctx, name, description)
	if err != nil {
		return nil, ErrServiceUnavailable
	}
	return role, nil
}

// AssignRole grants the named role to the user. Assigning a role the user
// already holds is a no-op. The role must exist; registration is the only
// path that creates roles implicitly.
func (e *Engine) AssignRole(ctx context.Context, userID int64, roleName string) error {
	if e == nil || e.users == nil || e.roles == nil {
		return ErrEngineNotReady
	}

	user, err := e.users.GetByID(ctx, userID)
	if err != nil {
		return ErrServiceUnavailable
	}
	if user == nil {
		return ErrUserNotFound
	}

	role, err := e.roles.GetByName(ctx, roleName)
	if err != nil {
		return ErrServiceUnavailable
	}
	if role == nil {
		return ErrRoleNotFound
	}

	if user.HasRole(role.Name) {
		return nil
	}

	user.Roles = append(user.Roles, *role)
	if err := e.users.Update(ctx, user); err != nil {
		return ErrServiceUnavailable
	}
	if err := e.users.Flush(ctx); err != nil {
		return ErrServiceUnavailable
	}

	e.metricInc(MetricRoleAssigned)
	e.emitAudit(ctx, auditEventRoleAssigned, true, user.SubjectID(), user.Email, "", nil, func() map[string]string {
		return map[string]string{"role": role.Name}
	})

	return nil
}

// RevokeRole removes the named role from the user. Revoking a role the
// user does not hold is a no-op.
func (e *Engine) RevokeRole(ctx context.Context, userID int64, roleName string) error {
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

	kept := user.Roles[:0]
	removed := false
	for _, r := range user.Roles {
		if r.Name == roleName {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if !removed {
		return nil
	}

	user.Roles = kept
	if err := e.users.Update(ctx, user); err != nil {
		return ErrServiceUnavailable
	}
	if err := e.users.Flush(ctx); err != nil {
		return ErrServiceUnavailable
	}

	e.metricInc(MetricRoleRevoked)
	e.emitAudit(ctx, auditEventRoleRevoked, true, user.SubjectID(), user.Email, "", nil, func() map[string]string {
		return map[string]string{"role": roleName}
	})

	return nil
}
