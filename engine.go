package authcore

import (
	"context"
	"log"
	"strconv"

	"github.com/MrEthical07/authcore/internal/audit"
	"github.com/MrEthical07/authcore/internal/flows"
	"github.com/MrEthical07/authcore/internal/rate"
	"github.com/MrEthical07/authcore/password"
	"github.com/MrEthical07/authcore/token"
)

// Engine defines a public type used by authcore APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config       Config
	users        UserStore
	roles        RoleStore
	revocations  RevocationStore
	rateLimiter  *rate.Limiter
	audit        *audit.Dispatcher
	metrics      *Metrics
	passwordHash *password.Hasher
	tokens       *token.Manager
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) warnf(format string, args ...any) {
	log.Printf("authcore: "+format, args...)
}

// accountView narrows a user record to the shape the internal flows consume.
func accountView(u *User) *flows.Account {
	if u == nil {
		return nil
	}
	return &flows.Account{
		ID:             u.SubjectID(),
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		Active:         u.IsActive,
		Roles:          u.RoleNames(),
	}
}

// userBySubject resolves a JWT subject claim back to a user record.
// Returns (nil, nil) when the subject is malformed or no user matches,
// so token-driven flows treat both the same way.
func (e *Engine) userBySubject(ctx context.Context, subject string) (*User, error) {
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, nil
	}
	return e.users.GetByID(ctx, id)
}

func (e *Engine) flowUserBySubject(ctx context.Context, subject string) (*flows.Account, error) {
	user, err := e.userBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	return accountView(user), nil
}
