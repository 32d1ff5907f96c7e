package flows

import "context"

// RegisterFailureKind classifies registration failures for root-level mapping.
type RegisterFailureKind int

const (
	RegisterFailureNone RegisterFailureKind = iota
	RegisterFailureExists
	RegisterFailurePolicy
	RegisterFailureLookup
	RegisterFailureRole
	RegisterFailurePersist
)

// RegisterResult carries the created account or failure metadata.
type RegisterResult struct {
	Failure RegisterFailureKind
	Err     error
	Account *Account
}

// RegisterDeps captures registration flow dependencies.
type RegisterDeps struct {
	GetByEmail     func(context.Context, string) (*Account, error) // nil, nil when absent
	HashPassword   func(string) (string, error)
	EnsureRole     func(context.Context) (string, error) // get-or-create default role, returns its name
	Persist        func(ctx context.Context, email, username, hash, roleName string) (*Account, error)
	IsDuplicateKey func(error) bool
}

// RunRegister executes account creation with race-safe duplicate handling.
//
// The pre-check on email keeps the common duplicate path cheap, but the
// authoritative answer is the store's uniqueness constraint: a concurrent
// insert that slips past the pre-check surfaces as a duplicate-key signal
// from Persist and is classified as RegisterFailureExists, never as a
// generic persistence failure.
func RunRegister(ctx context.Context, email, password, username string, deps RegisterDeps) RegisterResult {
	existing, err := deps.GetByEmail(ctx, email)
	if err != nil {
		return RegisterResult{Failure: RegisterFailureLookup, Err: err}
	}
	if existing != nil {
		return RegisterResult{Failure: RegisterFailureExists}
	}

	hash, err := deps.HashPassword(password)
	if err != nil {
		return RegisterResult{Failure: RegisterFailurePolicy, Err: err}
	}

	roleName, err := deps.EnsureRole(ctx)
	if err != nil {
		return RegisterResult{Failure: RegisterFailureRole, Err: err}
	}

	account, err := deps.Persist(ctx, email, username, hash, roleName)
	if err != nil {
		if deps.IsDuplicateKey != nil && deps.IsDuplicateKey(err) {
			return RegisterResult{Failure: RegisterFailureExists, Err: err}
		}
		return RegisterResult{Failure: RegisterFailurePersist, Err: err}
	}

	return RegisterResult{Failure: RegisterFailureNone, Account: account}
}
