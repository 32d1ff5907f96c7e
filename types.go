package authcore

import (
	"context"
	"strconv"
	"time"

	"github.com/MrEthical07/authcore/token"
)

// User defines a public type used by authcore APIs.
//
// User instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type User struct {
	ID             int64
	Email          string
	Username       string
	HashedPassword string
	IsActive       bool
	IsSuperuser    bool
	LastLogin      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Roles          []Role
}

// Role defines a public type used by authcore APIs.
//
// Role instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Role struct {
	ID          int64
	Name        string
	Description string
}

// RoleNames returns the user's role names, normalized to a sorted,
// de-duplicated set. The same normalization is applied when roles are
// embedded into token claims, so live membership and claim contents
// compare cleanly.
func (u *User) RoleNames() []string {
	if u == nil || len(u.Roles) == 0 {
		return nil
	}
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return token.NormalizeRoles(names)
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(name string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// SubjectID returns the user's ID in the string form used as the JWT
// subject claim.
func (u *User) SubjectID() string {
	if u == nil {
		return ""
	}
	return strconv.FormatInt(u.ID, 10)
}

// UserStore defines a public type used by authcore APIs.
//
// UserStore is the persistence boundary the host application implements.
// Lookup methods return (nil, nil) when no matching user exists; a non-nil
// error always means the backend itself failed. Add stages a new user and
// Flush commits staged writes, returning an error satisfying
// errors.Is(err, ErrDuplicateKey) when a uniqueness constraint rejects the
// commit.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Add(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Flush(ctx context.Context) error
}

// RoleStore defines a public type used by authcore APIs.
//
// RoleStore resolves role records by name. GetByName returns (nil, nil)
// when the role does not exist; GetOrCreate creates it on first use.
type RoleStore interface {
	GetByName(ctx context.Context, name string) (*Role, error)
	GetOrCreate(ctx context.Context, name, description string) (*Role, error)
}

// RevocationStore defines a public type used by authcore APIs.
//
// RevocationStore answers "has this token been revoked" and records
// revocations. Implementations are expected to expire entries on their own
// once the revoked token's natural lifetime has passed.
type RevocationStore interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	RevokeUser(ctx context.Context, userID string, at time.Time, ttl time.Duration) error
	UserRevokedAt(ctx context.Context, userID string) (time.Time, error)
}

// NoopRevocationStore defines a public type used by authcore APIs.
//
// NoopRevocationStore never reports a token as revoked and accepts every
// revocation as a silent no-op. It backs deployments that disable the
// blacklist entirely.
type NoopRevocationStore struct{}

func (NoopRevocationStore) IsRevoked(context.Context, string) (bool, error) { return false, nil }

func (NoopRevocationStore) Revoke(context.Context, string, time.Time) error { return nil }

func (NoopRevocationStore) RevokeUser(context.Context, string, time.Time, time.Duration) error {
	return nil
}

func (NoopRevocationStore) UserRevokedAt(context.Context, string) (time.Time, error) {
	return time.Time{}, nil
}

// LoginResult defines a public type used by authcore APIs.
//
// LoginResult instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	User         *User
}
