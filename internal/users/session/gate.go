package session

import "log/slog"

// Verdict is the routing decision a [Gate] renders for a snapshot.
type Verdict int

const (
	// VerdictWait means the session is still resolving; show nothing yet.
	VerdictWait Verdict = iota
	// VerdictSignIn means the visitor must authenticate first.
	VerdictSignIn
	// VerdictHome means the visitor is signed in but not allowed here.
	VerdictHome
	// VerdictAdmit means the protected content may be served.
	VerdictAdmit
)

// Gate decides admission to a protected region based on session snapshots.
//
// A gate instance is scoped to one region activation: the unauthorized-access
// warning fires at most once per instance, however many snapshots it sees.
type Gate struct {
	adminOnly bool
	warned    bool
	logger    *slog.Logger
}

// NewGate constructs a gate. adminOnly restricts the region to
// administrator sessions.
func NewGate(adminOnly bool, logger *slog.Logger) *Gate {
	return &Gate{adminOnly: adminOnly, logger: logger}
}

// Admit renders the verdict for a snapshot.
//
// An unresolved session always waits, whatever the other flags say; an
// unauthenticated one is sent to sign-in; an authenticated non-admin
// hitting an admin-only region is warned once and sent home.
func (gate *Gate) Admit(snapshot Snapshot) Verdict {
	if snapshot.IsLoading {
		return VerdictWait
	}

	if !snapshot.IsAuthenticated {
		return VerdictSignIn
	}

	if gate.adminOnly && !snapshot.IsAdmin {
		if !gate.warned {
			gate.warned = true
			gate.logger.Warn("unauthorized access attempt to admin area",
				slog.String("user_id", userID(snapshot)))
		}
		return VerdictHome
	}

	return VerdictAdmit
}

func userID(snapshot Snapshot) string {
	if snapshot.User == nil {
		return ""
	}
	return snapshot.User.UserID
}
