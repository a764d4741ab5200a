// Copyright (c) 2026 Lektura. All rights reserved.
// Author: dev@lektura.app

package sec

import (
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lekturahq/lektura/internal/platform/constants"
)

// AuthClaims represents the payload embedded inside a provider-issued access token.
//
// # Why custom claims?
//
// By reading identity and group membership directly from the JWT, the
// authentication middleware reconstructs the active user context WITHOUT a
// round-trip to the identity provider on every single API request.
type AuthClaims struct {
	jwt.RegisteredClaims

	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Groups []string `json:"cognito:groups"`
}

// UserID returns the stable principal identifier (the registered subject).
func (claims *AuthClaims) UserID() string {
	return claims.Subject
}

// IsAdmin reports whether the token's group claim carries the admin group.
func (claims *AuthClaims) IsAdmin() bool {
	return containsAdmin(claims.Groups)
}

// Role maps the group claim onto the two effective authorization levels.
func (claims *AuthClaims) Role() string {
	if claims.IsAdmin() {
		return "admin"
	}
	return "user"
}

// Verifier checks the signature and validity of provider-issued tokens
// using the provider's published RS256 public key.
//
// Unlike a full token service, it never signs anything: issuance belongs
// to the external identity provider.
type Verifier struct {
	publicKey *rsa.PublicKey
}

// NewVerifier reads the provider's RSA public key from the given PEM file.
func NewVerifier(publicKeyPath string) (*Verifier, error) {
	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return &Verifier{publicKey: publicKey}, nil
}

// VerifyToken checks the signature and validity of a JWT string.
func (verifier *Verifier) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return verifier.publicKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}

// AdminGroup returns the literal group name that grants administrator access.
// Exposed for wiring and tests; the value is fixed by the provider contract.
func AdminGroup() string {
	return constants.AdminGroupName
}
