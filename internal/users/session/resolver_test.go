package session_test

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lekturahq/lektura/internal/users/session"
)

// credentialWithPayload fakes a provider token around the given JSON payload.
func credentialWithPayload(payload string) string {
	return "h." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".s"
}

// fakeProvider scripts the identity provider for resolver tests.
type fakeProvider struct {
	mutex sync.Mutex

	credential string
	signInErr  error

	userID       string
	username     string
	principalErr error

	attributes    map[string]string
	attributesErr error

	signedOut []string

	// beforePublish, when set, runs after the provider calls complete but
	// before the resolver publishes, letting tests race a second mutation
	// against an in-flight one.
	beforePublish func()
}

func (provider *fakeProvider) SignIn(_ context.Context, _, _ string) (string, error) {
	if provider.signInErr != nil {
		return "", provider.signInErr
	}
	return provider.credential, nil
}

func (provider *fakeProvider) SignOut(_ context.Context, credential string) error {
	provider.mutex.Lock()
	defer provider.mutex.Unlock()
	provider.signedOut = append(provider.signedOut, credential)
	return nil
}

func (provider *fakeProvider) Principal(_ context.Context, _ string) (string, string, error) {
	if provider.principalErr != nil {
		return "", "", provider.principalErr
	}
	return provider.userID, provider.username, nil
}

func (provider *fakeProvider) PrincipalAttributes(_ context.Context, _ string) (map[string]string, error) {
	defer func() {
		if provider.beforePublish != nil {
			provider.beforePublish()
		}
	}()
	if provider.attributesErr != nil {
		return nil, provider.attributesErr
	}
	return provider.attributes, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// assertInvariants checks the structural rules every snapshot must satisfy.
func assertInvariants(t *testing.T, snapshot session.Snapshot) {
	t.Helper()
	assert.Equal(t, snapshot.User != nil, snapshot.IsAuthenticated)
	if !snapshot.IsAuthenticated {
		assert.False(t, snapshot.IsAdmin)
	}
}

/*
TestResolver_SignIn verifies a successful sign-in publishes an
authenticated snapshot with the admin flag derived from the credential.
*/
func TestResolver_SignIn(t *testing.T) {
	provider := &fakeProvider{
		credential: credentialWithPayload(`{"cognito:groups":["Admin","X"]}`),
		userID:     "user-1",
		username:   "frank",
		attributes: map[string]string{"email": "frank@example.com", "name": "Frank"},
	}
	resolver := session.NewResolver(provider, testLogger())

	// 1. starts unresolved
	assert.True(t, resolver.Snapshot().IsLoading)

	// 2. sign in succeeds
	require.NoError(t, resolver.SignIn(context.Background(), "frank@example.com", "pw"))

	snapshot := resolver.Snapshot()
	assertInvariants(t, snapshot)
	assert.True(t, snapshot.IsAuthenticated)
	assert.True(t, snapshot.IsAdmin)
	assert.False(t, snapshot.IsLoading)

	require.NotNil(t, snapshot.User)
	assert.Equal(t, "user-1", snapshot.User.UserID)
	assert.Equal(t, "frank@example.com", snapshot.User.Email)
	assert.Equal(t, "Frank", snapshot.User.DisplayName)

	// 3. the credential is exposed for privileged provider calls
	credential, ok := resolver.SessionCredential()
	assert.True(t, ok)
	assert.Equal(t, provider.credential, credential)
}

/*
TestResolver_SignIn_NonAdmin verifies a credential without the Admin group
yields an authenticated but non-admin session.
*/
func TestResolver_SignIn_NonAdmin(t *testing.T) {
	provider := &fakeProvider{
		credential: credentialWithPayload(`{"cognito:groups":["Readers"]}`),
		userID:     "user-2",
		username:   "jane",
	}
	resolver := session.NewResolver(provider, testLogger())

	require.NoError(t, resolver.SignIn(context.Background(), "jane@example.com", "pw"))

	snapshot := resolver.Snapshot()
	assertInvariants(t, snapshot)
	assert.True(t, snapshot.IsAuthenticated)
	assert.False(t, snapshot.IsAdmin)
}

/*
TestResolver_SignIn_UndecodableCredential verifies an opaque credential
still signs in, just without admin standing, and nothing panics.
*/
func TestResolver_SignIn_UndecodableCredential(t *testing.T) {
	provider := &fakeProvider{
		credential: "opaque-session-token",
		userID:     "user-3",
		username:   "sam",
	}
	resolver := session.NewResolver(provider, testLogger())

	require.NoError(t, resolver.SignIn(context.Background(), "sam@example.com", "pw"))

	snapshot := resolver.Snapshot()
	assertInvariants(t, snapshot)
	assert.True(t, snapshot.IsAuthenticated)
	assert.False(t, snapshot.IsAdmin)
}

/*
TestResolver_SignIn_Failure verifies a rejected sign-in propagates the
error and leaves the previous session in place.
*/
func TestResolver_SignIn_Failure(t *testing.T) {
	provider := &fakeProvider{
		credential: credentialWithPayload(`{}`),
		userID:     "user-4",
		username:   "pat",
	}
	resolver := session.NewResolver(provider, testLogger())

	// 1. establish a session
	require.NoError(t, resolver.SignIn(context.Background(), "pat@example.com", "pw"))

	// 2. a later failed attempt keeps it
	provider.signInErr = errors.New("invalid credentials")
	err := resolver.SignIn(context.Background(), "pat@example.com", "wrong")
	require.Error(t, err)

	snapshot := resolver.Snapshot()
	assertInvariants(t, snapshot)
	assert.True(t, snapshot.IsAuthenticated)

	_, ok := resolver.SessionCredential()
	assert.True(t, ok)
}

/*
TestResolver_SignIn_PrincipalFailure verifies a sign-in whose credential
cannot be resolved surfaces the error and clears the session.
*/
func TestResolver_SignIn_PrincipalFailure(t *testing.T) {
	provider := &fakeProvider{
		credential:   credentialWithPayload(`{"cognito:groups":["Admin"]}`),
		principalErr: errors.New("provider down"),
	}
	resolver := session.NewResolver(provider, testLogger())

	err := resolver.SignIn(context.Background(), "a@b.c", "pw")
	require.Error(t, err)

	snapshot := resolver.Snapshot()
	assertInvariants(t, snapshot)
	assert.False(t, snapshot.IsAuthenticated)
	assert.False(t, snapshot.IsLoading)

	_, ok := resolver.SessionCredential()
	assert.False(t, ok)
}

/*
TestResolver_SignIn_AttributesFailure verifies a failed attribute lookup
resolves to anonymous; a half-resolved identity is never published, even
when the credential itself carries the admin group.
*/
func TestResolver_SignIn_AttributesFailure(t *testing.T) {
	provider := &fakeProvider{
		credential:    credentialWithPayload(`{"cognito:groups":["Admin"]}`),
		userID:        "user-9",
		username:      "kim",
		attributesErr: errors.New("attributes unavailable"),
	}
	resolver := session.NewResolver(provider, testLogger())

	err := resolver.SignIn(context.Background(), "kim@example.com", "pw")
	require.Error(t, err)

	snapshot := resolver.Snapshot()
	assertInvariants(t, snapshot)
	assert.False(t, snapshot.IsAuthenticated)
	assert.False(t, snapshot.IsAdmin)

	_, ok := resolver.SessionCredential()
	assert.False(t, ok)
}

/*
TestResolver_Resolve verifies resolution without a credential lands in the
anonymous state without failing, and that a broken provider does the same.
*/
func TestResolver_Resolve(t *testing.T) {
	// 1. no credential: anonymous
	resolver := session.NewResolver(&fakeProvider{}, testLogger())
	snapshot := resolver.Resolve(context.Background())
	assertInvariants(t, snapshot)
	assert.False(t, snapshot.IsAuthenticated)
	assert.False(t, snapshot.IsLoading)

	// 2. provider rejects the stored credential: anonymous, no error
	provider := &fakeProvider{
		credential: credentialWithPayload(`{"cognito:groups":["Admin"]}`),
		userID:     "user-5",
	}
	resolver = session.NewResolver(provider, testLogger())
	require.NoError(t, resolver.SignIn(context.Background(), "a@b.c", "pw"))

	provider.principalErr = errors.New("provider down")
	snapshot = resolver.Resolve(context.Background())
	assertInvariants(t, snapshot)
	assert.False(t, snapshot.IsAuthenticated)

	_, ok := resolver.SessionCredential()
	assert.False(t, ok)

	// 3. attribute lookup fails mid-session: anonymous as well, no error
	provider = &fakeProvider{
		credential: credentialWithPayload(`{}`),
		userID:     "user-5",
	}
	resolver = session.NewResolver(provider, testLogger())
	require.NoError(t, resolver.SignIn(context.Background(), "a@b.c", "pw"))

	provider.attributesErr = errors.New("attributes unavailable")
	snapshot = resolver.Resolve(context.Background())
	assertInvariants(t, snapshot)
	assert.False(t, snapshot.IsAuthenticated)

	_, ok = resolver.SessionCredential()
	assert.False(t, ok)
}

/*
TestResolver_SignOut verifies sign-out revokes the credential, clears the
session, and notifies subscribers with the anonymous state.
*/
func TestResolver_SignOut(t *testing.T) {
	provider := &fakeProvider{
		credential: credentialWithPayload(`{"cognito:groups":["Admin"]}`),
		userID:     "user-6",
	}
	resolver := session.NewResolver(provider, testLogger())
	require.NoError(t, resolver.SignIn(context.Background(), "a@b.c", "pw"))

	var published []session.Snapshot
	unsubscribe := resolver.Subscribe(func(snapshot session.Snapshot) {
		published = append(published, snapshot)
	})
	defer unsubscribe()

	require.NoError(t, resolver.SignOut(context.Background()))

	// 1. local state cleared
	snapshot := resolver.Snapshot()
	assertInvariants(t, snapshot)
	assert.False(t, snapshot.IsAuthenticated)
	assert.False(t, snapshot.IsAdmin)

	_, ok := resolver.SessionCredential()
	assert.False(t, ok)

	// 2. the credential was revoked at the provider
	assert.Equal(t, []string{provider.credential}, provider.signedOut)

	// 3. subscribers saw the anonymous state
	require.NotEmpty(t, published)
	assert.False(t, published[len(published)-1].IsAuthenticated)
}

/*
TestResolver_StaleResolutionDiscarded verifies that a sign-out racing a slow
sign-in wins: the stale completion must not resurrect the session.
*/
func TestResolver_StaleResolutionDiscarded(t *testing.T) {
	provider := &fakeProvider{
		credential: credentialWithPayload(`{"cognito:groups":["Admin"]}`),
		userID:     "user-7",
	}
	resolver := session.NewResolver(provider, testLogger())

	// Sign out after the in-flight sign-in finished its provider calls but
	// before it publishes.
	var once sync.Once
	provider.beforePublish = func() {
		once.Do(func() {
			require.NoError(t, resolver.SignOut(context.Background()))
		})
	}

	require.NoError(t, resolver.SignIn(context.Background(), "a@b.c", "pw"))

	snapshot := resolver.Snapshot()
	assertInvariants(t, snapshot)
	assert.False(t, snapshot.IsAuthenticated, "stale sign-in completion must be discarded")

	_, ok := resolver.SessionCredential()
	assert.False(t, ok)
}

/*
TestResolver_ReSignIn verifies signing in over an existing session replaces
the snapshot wholesale.
*/
func TestResolver_ReSignIn(t *testing.T) {
	provider := &fakeProvider{
		credential: credentialWithPayload(`{"cognito:groups":["Admin"]}`),
		userID:     "admin-1",
		username:   "root",
	}
	resolver := session.NewResolver(provider, testLogger())
	require.NoError(t, resolver.SignIn(context.Background(), "root@example.com", "pw"))
	assert.True(t, resolver.Snapshot().IsAdmin)

	// 1. second sign-in as a regular user
	provider.credential = credentialWithPayload(`{}`)
	provider.userID = "user-8"
	provider.username = "plain"
	require.NoError(t, resolver.SignIn(context.Background(), "plain@example.com", "pw"))

	snapshot := resolver.Snapshot()
	assertInvariants(t, snapshot)
	assert.True(t, snapshot.IsAuthenticated)
	assert.False(t, snapshot.IsAdmin)
	require.NotNil(t, snapshot.User)
	assert.Equal(t, "user-8", snapshot.User.UserID)
}
