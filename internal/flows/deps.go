package flows

// Account is the flow-level view of a user record. The Engine converts its
// richer user model down to this before invoking a flow.
type Account struct {
	ID             string
	Email          string
	HashedPassword string
	Active         bool
	Roles          []string
}
