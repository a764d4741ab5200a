package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lekturahq/lektura/internal/platform/sec"
)

// Provider is the slice of the identity provider the resolver needs.
type Provider interface {
	// SignIn exchanges credentials for an access credential.
	SignIn(context context.Context, email, password string) (string, error)

	// SignOut revokes the access credential at the provider.
	SignOut(context context.Context, credential string) error

	// Principal returns the user id and username behind a credential.
	Principal(context context.Context, credential string) (userID, username string, err error)

	// PrincipalAttributes returns the attribute map behind a credential.
	PrincipalAttributes(context context.Context, credential string) (map[string]string, error)
}

// Resolver is the single writer of the session state.
//
// Every mutation bumps an internal generation counter, and a resolution
// attempt only publishes its outcome if no newer mutation started in the
// meantime. A sign-out racing a slow resolution therefore wins: the stale
// completion is discarded instead of resurrecting the old session.
type Resolver struct {
	provider Provider
	logger   *slog.Logger

	mutex       sync.Mutex
	generation  uint64
	credential  string
	snapshot    Snapshot
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

// NewResolver constructs a resolver in the unresolved state.
func NewResolver(provider Provider, logger *slog.Logger) *Resolver {
	return &Resolver{
		provider:    provider,
		logger:      logger,
		snapshot:    unresolved(),
		subscribers: map[int]func(Snapshot){},
	}
}

// Snapshot returns the current session state.
func (resolver *Resolver) Snapshot() Snapshot {
	resolver.mutex.Lock()
	defer resolver.mutex.Unlock()
	return resolver.snapshot
}

// SessionCredential returns the access credential of the current session,
// or false when signed out.
func (resolver *Resolver) SessionCredential() (string, bool) {
	resolver.mutex.Lock()
	defer resolver.mutex.Unlock()
	return resolver.credential, resolver.credential != ""
}

// Subscribe registers a callback invoked on every published snapshot.
// The returned function cancels the subscription.
func (resolver *Resolver) Subscribe(callback func(Snapshot)) func() {
	resolver.mutex.Lock()
	id := resolver.nextSubID
	resolver.nextSubID++
	resolver.subscribers[id] = callback
	resolver.mutex.Unlock()

	return func() {
		resolver.mutex.Lock()
		delete(resolver.subscribers, id)
		resolver.mutex.Unlock()
	}
}

/*
SignIn establishes a new session with the provider.

The admin flag is derived from the credential's group claim before the
snapshot is constructed, so no published state ever shows an authenticated
user whose admin standing is still undecided.

A rejected sign-in leaves the previous session untouched and returns the
provider's error. A sign-in whose credential then fails to resolve clears
the session and still returns the error: the caller asked for a session
and did not get one.
*/
func (resolver *Resolver) SignIn(context context.Context, email, password string) error {
	resolver.mutex.Lock()
	resolver.generation++
	generation := resolver.generation
	previousCredential := resolver.credential
	previousSnapshot := resolver.snapshot
	resolver.snapshot = unresolved()
	resolver.mutex.Unlock()

	credential, err := resolver.provider.SignIn(context, email, password)
	if err != nil {
		resolver.publish(generation, previousCredential, previousSnapshot)
		return err
	}

	snapshot, err := resolver.resolveCredential(context, credential)
	if err != nil || !snapshot.IsAuthenticated {
		resolver.publish(generation, "", anonymous())
		if err == nil {
			err = errors.New("session: provider returned no usable credential")
		}
		return fmt.Errorf("session: sign-in did not yield a session: %w", err)
	}

	resolver.publish(generation, credential, snapshot)

	return nil
}

// SignOut revokes the current session. The local state is cleared even when
// revocation at the provider fails; the error is still reported.
func (resolver *Resolver) SignOut(context context.Context) error {
	resolver.mutex.Lock()
	resolver.generation++
	generation := resolver.generation
	credential := resolver.credential
	resolver.credential = ""
	resolver.snapshot = unresolved()
	resolver.mutex.Unlock()

	var err error
	if credential != "" {
		err = resolver.provider.SignOut(context, credential)
	}

	resolver.publish(generation, "", anonymous())

	return err
}

/*
Resolve re-derives the session state from the stored credential.

It never fails outward: a missing credential or an unreachable provider
resolves to the anonymous state. Callers that need to distinguish a broken
provider from a signed-out user must use [Resolver.SignIn].
*/
func (resolver *Resolver) Resolve(context context.Context) Snapshot {
	resolver.mutex.Lock()
	resolver.generation++
	generation := resolver.generation
	credential := resolver.credential
	resolver.snapshot = unresolved()
	resolver.mutex.Unlock()

	snapshot, err := resolver.resolveCredential(context, credential)
	if err != nil {
		resolver.logger.Warn("session resolution failed", slog.String("error", err.Error()))
		snapshot = anonymous()
	}
	if !snapshot.IsAuthenticated {
		credential = ""
	}

	resolver.publish(generation, credential, snapshot)

	return resolver.Snapshot()
}

// resolveCredential turns a credential into a resolved snapshot.
//
// An empty credential yields the anonymous state. A failure of either
// provider call, principal or attributes, yields the anonymous state and
// the underlying error; a half-resolved identity is never published.
func (resolver *Resolver) resolveCredential(context context.Context, credential string) (Snapshot, error) {
	if credential == "" {
		return anonymous(), nil
	}

	// Admin standing comes from the credential itself, decoded before any
	// identity lookup, so the snapshot is built in one piece.
	isAdmin := sec.IsAdminCredential(credential)

	userID, username, err := resolver.provider.Principal(context, credential)
	if err != nil {
		return anonymous(), err
	}

	attributes, err := resolver.provider.PrincipalAttributes(context, credential)
	if err != nil {
		return anonymous(), err
	}

	identity := &Identity{
		UserID:      userID,
		DisplayName: username,
		IsAdmin:     isAdmin,
	}
	if email, ok := attributes["email"]; ok {
		identity.Email = email
	}
	if name, ok := attributes["name"]; ok && name != "" {
		identity.DisplayName = name
	}

	return authenticated(identity), nil
}

// publish installs the outcome of the mutation identified by generation.
// Outcomes of superseded mutations are dropped.
func (resolver *Resolver) publish(generation uint64, credential string, snapshot Snapshot) {
	resolver.mutex.Lock()

	if resolver.generation != generation {
		resolver.mutex.Unlock()
		return
	}

	resolver.credential = credential
	resolver.snapshot = snapshot

	callbacks := make([]func(Snapshot), 0, len(resolver.subscribers))
	for _, callback := range resolver.subscribers {
		callbacks = append(callbacks, callback)
	}
	resolver.mutex.Unlock()

	for _, callback := range callbacks {
		callback(snapshot)
	}
}
