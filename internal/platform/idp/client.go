// Copyright (c) 2026 Lektura. All rights reserved.
// Author: dev@lektura.app

/*
Package idp provides the HTTP client for the external identity provider.

Lektura does not own credentials: registration, sign-in, token issuance and
group assignment all live in the provider. This package is the single point
of contact, mirroring the provider's REST surface one method per operation.

Core Responsibilities:

  - Authentication: sign-in/sign-up/confirmation flows on behalf of clients.
  - Introspection: current principal and principal attributes for a credential.
  - Administration: privileged user-count queries for the metrics dashboard.

All methods are stateless: the caller supplies the access credential, the
client never stores one.
*/
package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lekturahq/lektura/internal/platform/apperr"
)

// requestTimeout bounds every single provider round-trip.
const requestTimeout = 10 * time.Second

// Principal is the provider's view of the signed-in account.
type Principal struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// Credentials is the token set issued by a successful sign-in.
type Credentials struct {
	AccessToken string `json:"accessToken"`
	IDToken     string `json:"idToken,omitempty"`
	ExpiresIn   int    `json:"expiresIn,omitempty"`
}

// Client talks to the identity provider over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a provider client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// # Authentication Operations

// SignIn exchanges email/password credentials for a token set.
//
// A rejected credential pair surfaces as [apperr.Unauthorized] so the caller
// can prompt for corrected credentials; transport failures surface as
// upstream errors.
func (client *Client) SignIn(ctx context.Context, email, password string) (*Credentials, error) {
	payload := map[string]string{"email": email, "password": password}

	credentials := &Credentials{}
	if err := client.post(ctx, "/signin", payload, "", credentials); err != nil {
		return nil, err
	}

	return credentials, nil
}

// SignUp registers a new account with the provider.
// The account stays unusable until confirmed via [Client.ConfirmSignUp].
func (client *Client) SignUp(ctx context.Context, email, password, name string) error {
	payload := map[string]string{"email": email, "password": password, "name": name}
	return client.post(ctx, "/signup", payload, "", nil)
}

// ConfirmSignUp completes registration with the emailed verification code.
func (client *Client) ConfirmSignUp(ctx context.Context, identifier, code string) error {
	payload := map[string]string{"identifier": identifier, "code": code}
	return client.post(ctx, "/confirm", payload, "", nil)
}

// SignOut revokes the given access credential at the provider.
func (client *Client) SignOut(ctx context.Context, accessToken string) error {
	return client.post(ctx, "/signout", map[string]string{}, accessToken, nil)
}

// # Introspection Operations

// Principal returns the account behind the given access credential.
func (client *Client) Principal(ctx context.Context, accessToken string) (*Principal, error) {
	principal := &Principal{}
	if err := client.get(ctx, "/principal", accessToken, principal); err != nil {
		return nil, err
	}
	return principal, nil
}

// PrincipalAttributes returns the attribute map (email, name, ...) of the
// account behind the given access credential.
func (client *Client) PrincipalAttributes(ctx context.Context, accessToken string) (map[string]string, error) {
	attributes := map[string]string{}
	if err := client.get(ctx, "/principal/attributes", accessToken, &attributes); err != nil {
		return nil, err
	}
	return attributes, nil
}

// # Administration Operations

// AdminUserCount returns the total number of registered accounts.
// The supplied credential must belong to the admin group.
func (client *Client) AdminUserCount(ctx context.Context, accessToken string) (int, error) {
	result := struct {
		Count int `json:"count"`
	}{}

	if err := client.get(ctx, "/admin/users/count", accessToken, &result); err != nil {
		return 0, err
	}

	return result.Count, nil
}

// # Transport Plumbing

// post issues a JSON POST and decodes the response body into target (if non-nil).
func (client *Client) post(ctx context.Context, path string, payload any, accessToken string, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("idp: failed to encode request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("idp: failed to build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	return client.do(request, accessToken, target)
}

// get issues an authenticated GET and decodes the response body into target.
func (client *Client) get(ctx context.Context, path string, accessToken string, target any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("idp: failed to build request: %w", err)
	}

	return client.do(request, accessToken, target)
}

// do executes the request, maps provider status codes onto application
// errors, and decodes the body into target when provided.
func (client *Client) do(request *http.Request, accessToken string, target any) error {
	if accessToken != "" {
		request.Header.Set("Authorization", "Bearer "+accessToken)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return apperr.Upstream("Identity provider", err)
	}
	defer func() { _ = response.Body.Close() }()

	switch {
	case response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden:
		return apperr.Unauthorized("Invalid credentials or session")
	case response.StatusCode == http.StatusConflict:
		return apperr.Conflict("Account already exists")
	case response.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return apperr.Upstream("Identity provider",
			fmt.Errorf("idp: unexpected status %d: %s", response.StatusCode, string(body)))
	}

	if target == nil {
		return nil
	}

	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		return apperr.Upstream("Identity provider", fmt.Errorf("idp: failed to decode response: %w", err))
	}

	return nil
}
