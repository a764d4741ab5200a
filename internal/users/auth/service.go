// Copyright (c) 2026 Lektura. All rights reserved.
// Author: dev@lektura.app

package auth

import (
	"context"
	"log/slog"

	"github.com/lekturahq/lektura/internal/platform/constants"
	"github.com/lekturahq/lektura/internal/platform/idp"
	"github.com/lekturahq/lektura/internal/platform/sec"
	"github.com/lekturahq/lektura/internal/platform/validate"
)

// Validation field identifiers.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldName     = "name"
	FieldCode     = "code"
)

// identityProvider is the slice of the provider client this service uses.
type identityProvider interface {
	SignIn(context context.Context, email, password string) (*idp.Credentials, error)
	SignUp(context context.Context, email, password, name string) error
	ConfirmSignUp(context context.Context, identifier, code string) error
	SignOut(context context.Context, accessToken string) error
	Principal(context context.Context, accessToken string) (*idp.Principal, error)
	PrincipalAttributes(context context.Context, accessToken string) (map[string]string, error)
}

// # Service Layer

// Service proxies authentication flows to the identity provider.
type Service struct {
	provider identityProvider
	cache    ProfileCache
	logger   *slog.Logger
}

// NewService constructs a new [Service].
func NewService(provider identityProvider, cache ProfileCache, logger *slog.Logger) *Service {
	return &Service{
		provider: provider,
		cache:    cache,
		logger:   logger,
	}
}

/*
SignIn authenticates a user against the identity provider.

Description: On success the access credential's claims are decoded (without
signature verification; the credential just came from the provider itself)
to populate the profile fields, including the role derived from the group
claim.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *SessionPayload: Token plus the signed-in profile
  - error: Validation, rejection, or provider errors
*/
func (service *Service) SignIn(context context.Context, email, password string) (*SessionPayload, error) {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Email(FieldEmail, email)
	validator.Required(FieldPassword, password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	credentials, err := service.provider.SignIn(context, email, password)
	if err != nil {
		return nil, err
	}

	profile := profileFromCredential(credentials.AccessToken)
	if profile.Email == "" {
		profile.Email = email
	}

	payload := &SessionPayload{
		Token:     credentials.AccessToken,
		ExpiresIn: credentials.ExpiresIn,
		User:      profile,
	}

	// Warm the profile cache so the immediate follow-up Me call is local.
	if err := service.cache.Set(context, credentials.AccessToken, profile, constants.PrincipalCacheTTL); err != nil {
		service.logger.Warn("profile cache write failed", slog.String("error", err.Error()))
	}

	return payload, nil
}

/*
SignUp registers a new account with the identity provider.

Parameters:
  - context: context.Context
  - email: string
  - password: string
  - name: string

Returns:
  - error: Validation or provider errors
*/
func (service *Service) SignUp(context context.Context, email, password, name string) error {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Email(FieldEmail, email)
	validator.Required(FieldPassword, password).MinLen(FieldPassword, password, 8)
	validator.MaxLen(FieldName, name, 200)
	if err := validator.Err(); err != nil {
		return err
	}

	return service.provider.SignUp(context, email, password, name)
}

// Confirm completes a registration with the emailed verification code.
func (service *Service) Confirm(context context.Context, identifier, code string) error {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, identifier)
	validator.Required(FieldCode, code)
	if err := validator.Err(); err != nil {
		return err
	}

	return service.provider.ConfirmSignUp(context, identifier, code)
}

// SignOut revokes the credential at the provider and evicts its cached
// profile. Cache eviction failures are logged, not surfaced.
func (service *Service) SignOut(context context.Context, accessToken string) error {
	if err := service.cache.Delete(context, accessToken); err != nil {
		service.logger.Warn("profile cache eviction failed", slog.String("error", err.Error()))
	}

	return service.provider.SignOut(context, accessToken)
}

/*
Me resolves the profile behind an access credential.

Description: The Redis cache is consulted first; on a miss the provider is
asked for the principal and its attributes, and the result is cached. A
broken cache degrades to provider lookups rather than failing the call.

Parameters:
  - context: context.Context
  - accessToken: string

Returns:
  - *Profile: The resolved profile
  - error: Provider rejection or connectivity errors
*/
func (service *Service) Me(context context.Context, accessToken string) (*Profile, error) {
	cached, err := service.cache.Get(context, accessToken)
	if err != nil {
		service.logger.Warn("profile cache read failed", slog.String("error", err.Error()))
	}
	if cached != nil {
		return cached, nil
	}

	principal, err := service.provider.Principal(context, accessToken)
	if err != nil {
		return nil, err
	}

	profile := profileFromCredential(accessToken)
	profile.UserID = principal.UserID
	if profile.Name == "" {
		profile.Name = principal.Username
	}

	if attributes, err := service.provider.PrincipalAttributes(context, accessToken); err == nil {
		if email := attributes["email"]; email != "" {
			profile.Email = email
		}
		if name := attributes["name"]; name != "" {
			profile.Name = name
		}
	}

	if err := service.cache.Set(context, accessToken, profile, constants.PrincipalCacheTTL); err != nil {
		service.logger.Warn("profile cache write failed", slog.String("error", err.Error()))
	}

	return &profile, nil
}

// profileFromCredential fills profile fields from the credential's claims.
// Opaque credentials yield an empty profile with the "user" role.
func profileFromCredential(accessToken string) Profile {
	claims := sec.DecodeRawClaims(accessToken)

	profile := Profile{Role: "user"}
	if claims == nil {
		return profile
	}

	if subject, ok := claims["sub"].(string); ok {
		profile.UserID = subject
	}
	if email, ok := claims["email"].(string); ok {
		profile.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		profile.Name = name
	}
	if sec.IsAdminCredential(accessToken) {
		profile.Role = "admin"
	}

	return profile
}
