// Copyright (c) 2026 Lektura. All rights reserved.
// Author: dev@lektura.app

/*
Package sec provides token claim handling for provider-issued credentials.

The external identity provider signs access tokens (JWT) carrying a
group-membership claim. This package offers two complementary views of
such a token:

  - Verified: signature-checked parsing via [Verifier], used by the HTTP
    authentication middleware on every request.
  - Unverified: payload-only decoding via [DecodeRawClaims], used by the
    session resolver which trusts the provider it just received the
    credential from and must never fail on malformed data.
*/
package sec

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/lekturahq/lektura/internal/platform/constants"
)

// DecodeRawClaims extracts the claim set from a credential without verifying
// its signature.
//
// # Algorithm
//
//  1. Split the compact serialization on "." and take the middle segment.
//  2. Translate base64url to standard base64 ("-"→"+", "_"→"/") and decode.
//  3. Parse the result as a JSON object.
//
// Any failure (missing segment, invalid base64, invalid JSON) yields nil
// rather than an error: a malformed credential means "no claims", not a
// fault the caller has to handle.
func DecodeRawClaims(credential string) map[string]any {
	segments := strings.Split(credential, ".")
	if len(segments) < 2 {
		return nil
	}

	payload := strings.NewReplacer("-", "+", "_", "/").Replace(segments[1])

	// The provider emits unpadded base64url; restore padding for the
	// standard decoder.
	if rem := len(payload) % 4; rem != 0 {
		payload += strings.Repeat("=", 4-rem)
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil
	}

	claims := map[string]any{}
	if err := json.Unmarshal(decoded, &claims); err != nil {
		return nil
	}

	return claims
}

// Groups reads the provider's group-membership claim from a raw claim set.
// An absent or malformed claim yields an empty list.
func Groups(claims map[string]any) []string {
	if claims == nil {
		return nil
	}

	raw, ok := claims[constants.GroupsClaimKey].([]any)
	if !ok {
		return nil
	}

	groups := make([]string, 0, len(raw))
	for _, entry := range raw {
		if name, ok := entry.(string); ok {
			groups = append(groups, name)
		}
	}

	return groups
}

// IsAdminCredential reports whether the credential's group claim contains the
// administrator group. It never fails: an undecodable credential is simply
// not an administrator.
func IsAdminCredential(credential string) bool {
	return containsAdmin(Groups(DecodeRawClaims(credential)))
}

// containsAdmin checks the group list for the literal admin group name.
func containsAdmin(groups []string) bool {
	for _, group := range groups {
		if group == constants.AdminGroupName {
			return true
		}
	}
	return false
}
