package session

import (
	"context"

	"github.com/lekturahq/lektura/internal/platform/idp"
)

// IdPProvider adapts the identity-provider HTTP client to the [Provider]
// interface consumed by the resolver.
type IdPProvider struct {
	client *idp.Client
}

func NewIdPProvider(client *idp.Client) *IdPProvider {
	return &IdPProvider{client: client}
}

func (provider *IdPProvider) SignIn(context context.Context, email, password string) (string, error) {
	credentials, err := provider.client.SignIn(context, email, password)
	if err != nil {
		return "", err
	}
	return credentials.AccessToken, nil
}

func (provider *IdPProvider) SignOut(context context.Context, credential string) error {
	return provider.client.SignOut(context, credential)
}

func (provider *IdPProvider) Principal(context context.Context, credential string) (string, string, error) {
	principal, err := provider.client.Principal(context, credential)
	if err != nil {
		return "", "", err
	}
	return principal.UserID, principal.Username, nil
}

func (provider *IdPProvider) PrincipalAttributes(context context.Context, credential string) (map[string]string, error) {
	return provider.client.PrincipalAttributes(context, credential)
}
