package session_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lekturahq/lektura/internal/users/session"
)

/*
TestGate_Loading verifies an unresolved session always waits, whatever the
other flags claim.
*/
func TestGate_Loading(t *testing.T) {
	gate := session.NewGate(true, testLogger())

	snapshot := session.Snapshot{
		IsLoading:       true,
		IsAuthenticated: true,
		IsAdmin:         true,
		User:            &session.Identity{UserID: "u-1"},
	}

	assert.Equal(t, session.VerdictWait, gate.Admit(snapshot))
}

/*
TestGate_Unauthenticated verifies signed-out visitors are sent to sign-in.
*/
func TestGate_Unauthenticated(t *testing.T) {
	gate := session.NewGate(false, testLogger())

	assert.Equal(t, session.VerdictSignIn, gate.Admit(session.Snapshot{}))
}

/*
TestGate_AdminRegion verifies the admin-only rules: non-admins are warned
once and sent home, admins are admitted.
*/
func TestGate_AdminRegion(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buffer, nil))
	gate := session.NewGate(true, logger)

	user := session.Snapshot{
		IsAuthenticated: true,
		User:            &session.Identity{UserID: "u-2"},
	}

	// 1. non-admin is redirected home
	assert.Equal(t, session.VerdictHome, gate.Admit(user))

	// 2. the warning fires exactly once per gate instance
	assert.Equal(t, session.VerdictHome, gate.Admit(user))
	assert.Equal(t, 1, strings.Count(buffer.String(), "unauthorized access attempt"))

	// 3. a fresh gate warns again
	fresh := session.NewGate(true, logger)
	assert.Equal(t, session.VerdictHome, fresh.Admit(user))
	assert.Equal(t, 2, strings.Count(buffer.String(), "unauthorized access attempt"))

	// 4. an admin is admitted
	admin := session.Snapshot{
		IsAuthenticated: true,
		IsAdmin:         true,
		User:            &session.Identity{UserID: "u-3", IsAdmin: true},
	}
	assert.Equal(t, session.VerdictAdmit, gate.Admit(admin))
}

/*
TestGate_RegularRegion verifies authenticated users reach non-admin regions
regardless of admin standing.
*/
func TestGate_RegularRegion(t *testing.T) {
	gate := session.NewGate(false, testLogger())

	snapshot := session.Snapshot{
		IsAuthenticated: true,
		User:            &session.Identity{UserID: "u-4"},
	}

	assert.Equal(t, session.VerdictAdmit, gate.Admit(snapshot))
}
