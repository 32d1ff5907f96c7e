package token

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind distinguishes the two token flavors carried in the "type" claim.
type Kind string

const (
	// KindAccess is an exported constant or variable used by the authentication engine.
	KindAccess Kind = "access"
	// KindRefresh is an exported constant or variable used by the authentication engine.
	KindRefresh Kind = "refresh"
)

// SigningMethod defines a public type used by authcore APIs.
//
// SigningMethod instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SigningMethod string

const (
	// MethodHS256 is an exported constant or variable used by the authentication engine.
	MethodHS256 SigningMethod = "hs256"
	// MethodHS384 is an exported constant or variable used by the authentication engine.
	MethodHS384 SigningMethod = "hs384"
	// MethodHS512 is an exported constant or variable used by the authentication engine.
	MethodHS512 SigningMethod = "hs512"
)

var (
	// ErrInvalid is returned for malformed tokens, bad signatures, and kind mismatches.
	ErrInvalid = errors.New("invalid token")
	// ErrExpired is returned when expiry verification is requested and now >= exp.
	ErrExpired = errors.New("token expired")
)

const minSecretBytes = 32

// Config defines a public type used by authcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Secret        []byte
	SigningMethod SigningMethod
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Leeway        time.Duration
}

// Claims is the validated payload of a signed token. Claims are immutable
// once issued; parsing never mutates engine state.
type Claims struct {
	Type  Kind     `json:"type"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// IsExpired reports whether the token's expiry has passed. It is usable on
// claims obtained with expiry verification disabled.
func (c *Claims) IsExpired() bool {
	return c.isExpiredAt(time.Now())
}

func (c *Claims) isExpiredAt(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !now.Before(c.ExpiresAt.Time)
}

// Manager defines a public type used by authcore APIs.
//
// Manager instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Manager struct {
	config Config
}

// NewManager describes the newmanager operation and its observable behavior.
//
// NewManager may return an error when input validation, dependency calls, or security checks fail.
// NewManager does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if len(cfg.Secret) < minSecretBytes {
		return nil, fmt.Errorf("signing secret must be at least %d bytes", minSecretBytes)
	}

	switch cfg.SigningMethod {
	case MethodHS256, MethodHS384, MethodHS512:
	case "":
		cfg.SigningMethod = MethodHS256
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Manager{config: cfg}, nil
}

// IssueAccess describes the issueaccess operation and its observable behavior.
//
// IssueAccess signs an access token for subject with iat=now and
// exp=now+AccessTTL. Role names are normalized to a sorted, deduplicated set
// regardless of input order or duplicates; empty entries are dropped. The
// token carries a unique jti for revocation.
func (m *Manager) IssueAccess(subject, email string, roles []string) (string, error) {
	claims := &Claims{
		Type:  KindAccess,
		Email: email,
		Roles: NormalizeRoles(roles),
	}
	return m.sign(claims, subject, m.config.AccessTTL)
}

// IssueRefresh describes the issuerefresh operation and its observable behavior.
//
// IssueRefresh signs a refresh token for subject with exp=now+RefreshTTL.
// Refresh tokens carry no email or role claims, only a unique jti used for
// one-time-use enforcement.
func (m *Manager) IssueRefresh(subject string) (string, error) {
	claims := &Claims{Type: KindRefresh}
	return m.sign(claims, subject, m.config.RefreshTTL)
}

func (m *Manager) sign(claims *Claims, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
	if m.config.Issuer != "" {
		claims.Issuer = m.config.Issuer
	}

	return jwt.NewWithClaims(m.getMethod(), claims).SignedString(m.config.Secret)
}

// Parse describes the parse operation and its observable behavior.
//
// Parse verifies the signature unconditionally and returns [ErrInvalid] on
// any shape or signature failure. Expiry is enforced only when verifyExpiry
// is true, returning [ErrExpired] once now >= exp. verifyExpiry=false exists
// because logout must still read claims (to blacklist the jti) from an
// already-expired token.
func (m *Manager) Parse(tokenStr string, verifyExpiry bool) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.getMethod().Alg()}),
	}
	if verifyExpiry {
		if m.config.Leeway > 0 {
			options = append(options, jwt.WithLeeway(m.config.Leeway))
		}
		if m.config.Issuer != "" {
			options = append(options, jwt.WithIssuer(m.config.Issuer))
		}
	} else {
		options = append(options, jwt.WithoutClaimsValidation())
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.getMethod().Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return m.config.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil ||
		!claims.ExpiresAt.Time.After(claims.IssuedAt.Time) {
		return nil, fmt.Errorf("%w: exp must be after iat", ErrInvalid)
	}

	return claims, nil
}

// AssertKind describes the assertkind operation and its observable behavior.
//
// AssertKind fails with [ErrInvalid] when the claims carry a different kind
// than expected. This check is mandatory on every verification path: it is
// what stops a refresh token being accepted where an access token is
// required, and vice versa.
func AssertKind(claims *Claims, expected Kind) error {
	if claims == nil || claims.Type != expected {
		got := Kind("")
		if claims != nil {
			got = claims.Type
		}
		return fmt.Errorf("%w: expected %s token, got %q", ErrInvalid, expected, got)
	}
	return nil
}

// NormalizeRoles returns the sorted, deduplicated role-name set with empty
// entries dropped. A nil or empty input yields nil so the claim is omitted.
func NormalizeRoles(roles []string) []string {
	if len(roles) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil
	}

	sort.Strings(out)
	return out
}

func (m *Manager) getMethod() jwt.SigningMethod {
	switch m.config.SigningMethod {
	case MethodHS384:
		return jwt.SigningMethodHS384
	case MethodHS512:
		return jwt.SigningMethodHS512
	default:
		return jwt.SigningMethodHS256
	}
}
