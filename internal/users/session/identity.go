/*
Package session owns the service's sign-in state against the external
identity provider.

A single [Resolver] is the only writer of that state. Everyone else sees it
through immutable [Snapshot] values, either by polling [Resolver.Snapshot]
or by subscribing to changes. The package also provides [Gate], the
admission policy that turns a snapshot into a routing decision.
*/
package session

// Identity describes the signed-in account.
type Identity struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IsAdmin     bool   `json:"isAdmin"`
}

// Snapshot is an immutable view of the session state at one point in time.
//
// Invariants: IsAuthenticated holds exactly when User is non-nil, and an
// unauthenticated snapshot never carries IsAdmin.
type Snapshot struct {
	User            *Identity `json:"user"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	IsAdmin         bool      `json:"isAdmin"`
	IsLoading       bool      `json:"isLoading"`
}

// anonymous is the resolved signed-out state.
func anonymous() Snapshot {
	return Snapshot{IsLoading: false}
}

// unresolved is the state before (or during) a resolution attempt.
func unresolved() Snapshot {
	return Snapshot{IsLoading: true}
}

// authenticated builds the signed-in state for the given identity.
func authenticated(user *Identity) Snapshot {
	return Snapshot{
		User:            user,
		IsAuthenticated: true,
		IsAdmin:         user.IsAdmin,
		IsLoading:       false,
	}
}
