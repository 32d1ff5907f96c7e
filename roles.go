package authcore

import "fmt"

// RolePredicate defines a public type used by authcore APIs.
//
// A RolePredicate inspects a resolved user and returns nil to grant access
// or an error wrapping ErrPermissionDenied to deny it.
type RolePredicate func(*User) error

// RequireRole grants access to users carrying the named role. Superusers
// pass regardless of role membership.
func RequireRole(name string) RolePredicate {
	return func(u *User) error {
		if u == nil {
			return ErrPermissionDenied
		}
		if u.IsSuperuser || u.HasRole(name) {
			return nil
		}
		return fmt.Errorf("%w: missing role %q", ErrPermissionDenied, name)
	}
}

// RequireAnyRole grants access to users carrying at least one of the named
// roles.
func RequireAnyRole(names ...string) RolePredicate {
	return func(u *User) error {
		if u == nil {
			return ErrPermissionDenied
		}
		if u.IsSuperuser {
			return nil
		}
		for _, name := range names {
			if u.HasRole(name) {
				return nil
			}
		}
		return fmt.Errorf("%w: requires one of %v", ErrPermissionDenied, names)
	}
}

// RequireAllRoles grants access only to users carrying every named role.
func RequireAllRoles(names ...string) RolePredicate {
	return func(u *User) error {
		if u == nil {
			return ErrPermissionDenied
		}
		if u.IsSuperuser {
			return nil
		}
		for _, name := range names {
			if !u.HasRole(name) {
				return fmt.Errorf("%w: missing role %q", ErrPermissionDenied, name)
			}
		}
		return nil
	}
}

// RequireSuperuser grants access to superusers only.
func RequireSuperuser() RolePredicate {
	return func(u *User) error {
		if u == nil || !u.IsSuperuser {
			return fmt.Errorf("%w: superuser required", ErrPermissionDenied)
		}
		return nil
	}
}
