// Copyright (c) 2026 Lektura. All rights reserved.
// Author: dev@lektura.app

package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lekturahq/lektura/internal/platform/apperr"
	"github.com/lekturahq/lektura/internal/platform/idp"
)

func adminToken() string {
	payload := `{"sub":"admin-1","email":"root@example.com","name":"Root","cognito:groups":["Admin"]}`
	return "h." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".s"
}

type fakeIdentityProvider struct {
	signInErr      error
	credentials    *idp.Credentials
	signUps        int
	confirms       int
	signOuts       int
	principalCalls int
	principal      *idp.Principal
	attributes     map[string]string
}

func (provider *fakeIdentityProvider) SignIn(_ context.Context, _, _ string) (*idp.Credentials, error) {
	if provider.signInErr != nil {
		return nil, provider.signInErr
	}
	return provider.credentials, nil
}

func (provider *fakeIdentityProvider) SignUp(_ context.Context, _, _, _ string) error {
	provider.signUps++
	return nil
}

func (provider *fakeIdentityProvider) ConfirmSignUp(_ context.Context, _, _ string) error {
	provider.confirms++
	return nil
}

func (provider *fakeIdentityProvider) SignOut(_ context.Context, _ string) error {
	provider.signOuts++
	return nil
}

func (provider *fakeIdentityProvider) Principal(_ context.Context, _ string) (*idp.Principal, error) {
	provider.principalCalls++
	return provider.principal, nil
}

func (provider *fakeIdentityProvider) PrincipalAttributes(_ context.Context, _ string) (map[string]string, error) {
	return provider.attributes, nil
}

type memoryCache struct {
	entries map[string]Profile
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]Profile{}}
}

func (cache *memoryCache) Get(_ context.Context, credential string) (*Profile, error) {
	if profile, ok := cache.entries[credential]; ok {
		return &profile, nil
	}
	return nil, nil
}

func (cache *memoryCache) Set(_ context.Context, credential string, profile Profile, _ time.Duration) error {
	cache.entries[credential] = profile
	return nil
}

func (cache *memoryCache) Delete(_ context.Context, credential string) error {
	delete(cache.entries, credential)
	return nil
}

func newTestService(provider *fakeIdentityProvider, cache ProfileCache) *Service {
	return NewService(provider, cache, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestService_SignIn verifies the proxy decorates the provider's token with
profile fields decoded from the credential.
*/
func TestService_SignIn(t *testing.T) {
	provider := &fakeIdentityProvider{
		credentials: &idp.Credentials{AccessToken: adminToken(), ExpiresIn: 3600},
	}
	service := newTestService(provider, newMemoryCache())

	payload, err := service.SignIn(context.Background(), "root@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, adminToken(), payload.Token)
	assert.Equal(t, "admin-1", payload.User.UserID)
	assert.Equal(t, "root@example.com", payload.User.Email)
	assert.Equal(t, "admin", payload.User.Role)
}

/*
TestService_SignIn_Validation verifies malformed input never reaches the
provider.
*/
func TestService_SignIn_Validation(t *testing.T) {
	provider := &fakeIdentityProvider{signInErr: errors.New("must not be called")}
	service := newTestService(provider, newMemoryCache())

	_, err := service.SignIn(context.Background(), "not-an-email", "")
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

/*
TestService_SignUpAndConfirm verifies the registration flow forwards to the
provider after validation.
*/
func TestService_SignUpAndConfirm(t *testing.T) {
	provider := &fakeIdentityProvider{}
	service := newTestService(provider, newMemoryCache())

	// 1. weak password is rejected locally
	err := service.SignUp(context.Background(), "new@example.com", "short", "New User")
	require.Error(t, err)
	assert.Zero(t, provider.signUps)

	// 2. valid registration goes through
	require.NoError(t, service.SignUp(context.Background(), "new@example.com", "longenough1", "New User"))
	assert.Equal(t, 1, provider.signUps)

	// 3. confirmation forwards
	require.NoError(t, service.Confirm(context.Background(), "new@example.com", "123456"))
	assert.Equal(t, 1, provider.confirms)
}

/*
TestService_Me verifies the cache-aside lookup: first call hits the
provider, the second is served from cache.
*/
func TestService_Me(t *testing.T) {
	token := adminToken()
	provider := &fakeIdentityProvider{
		principal:  &idp.Principal{UserID: "admin-1", Username: "root"},
		attributes: map[string]string{"email": "root@example.com", "name": "Root"},
	}
	cache := newMemoryCache()
	service := newTestService(provider, cache)

	// 1. miss: provider consulted
	profile, err := service.Me(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", profile.UserID)
	assert.Equal(t, "Root", profile.Name)
	assert.Equal(t, "admin", profile.Role)
	assert.Equal(t, 1, provider.principalCalls)

	// 2. hit: provider untouched
	_, err = service.Me(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.principalCalls)
}

/*
TestService_SignOut verifies sign-out evicts the cached profile and revokes
at the provider.
*/
func TestService_SignOut(t *testing.T) {
	token := adminToken()
	provider := &fakeIdentityProvider{
		credentials: &idp.Credentials{AccessToken: token},
		principal:   &idp.Principal{UserID: "admin-1", Username: "root"},
	}
	cache := newMemoryCache()
	service := newTestService(provider, cache)

	_, err := service.SignIn(context.Background(), "root@example.com", "secret")
	require.NoError(t, err)
	assert.Len(t, cache.entries, 1)

	require.NoError(t, service.SignOut(context.Background(), token))
	assert.Empty(t, cache.entries)
	assert.Equal(t, 1, provider.signOuts)
}
