// Copyright (c) 2026 Lektura. All rights reserved.
// Author: dev@lektura.app

package sec_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lekturahq/lektura/internal/platform/sec"
)

// token builds a fake compact serialization around the given payload bytes.
func token(payload []byte) string {
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return "header." + encoded + ".signature"
}

/*
TestDecodeRawClaims verifies payload extraction without signature
verification, including base64url translation and padding restoration.
*/
func TestDecodeRawClaims(t *testing.T) {
	// 1. a well-formed payload decodes to its claim map
	claims := sec.DecodeRawClaims(token([]byte(`{"sub":"user-1","email":"a@b.c"}`)))
	assert.Equal(t, "user-1", claims["sub"])
	assert.Equal(t, "a@b.c", claims["email"])

	// 2. payloads exercising the url-safe alphabet still decode
	claims = sec.DecodeRawClaims(token([]byte(`{"k":"~~~~?????>>>>"}`)))
	assert.Equal(t, "~~~~?????>>>>", claims["k"])

	// 3. malformed inputs yield nil, never a panic
	assert.Nil(t, sec.DecodeRawClaims(""))
	assert.Nil(t, sec.DecodeRawClaims("no-dots-here"))
	assert.Nil(t, sec.DecodeRawClaims("a.!!!not-base64!!!.b"))
	assert.Nil(t, sec.DecodeRawClaims(token([]byte("not json"))))
}

/*
TestGroups verifies tolerant extraction of the group-membership claim.
*/
func TestGroups(t *testing.T) {
	// 1. present and well-formed
	groups := sec.Groups(map[string]any{"cognito:groups": []any{"Admin", "Staff"}})
	assert.Equal(t, []string{"Admin", "Staff"}, groups)

	// 2. absent claim
	assert.Nil(t, sec.Groups(map[string]any{}))
	assert.Nil(t, sec.Groups(nil))

	// 3. wrong-typed claim
	assert.Nil(t, sec.Groups(map[string]any{"cognito:groups": "Admin"}))

	// 4. non-string members are skipped
	groups = sec.Groups(map[string]any{"cognito:groups": []any{"Admin", 7.0}})
	assert.Equal(t, []string{"Admin"}, groups)
}

/*
TestIsAdminCredential verifies the end-to-end admin derivation from a raw
credential string.
*/
func TestIsAdminCredential(t *testing.T) {
	// 1. member of the Admin group
	assert.True(t, sec.IsAdminCredential(token([]byte(`{"cognito:groups":["Admin","X"]}`))))

	// 2. group membership is exact, not case-insensitive
	assert.False(t, sec.IsAdminCredential(token([]byte(`{"cognito:groups":["admin"]}`))))

	// 3. empty payload and undecodable credentials are not administrators
	assert.False(t, sec.IsAdminCredential(token([]byte(`{}`))))
	assert.False(t, sec.IsAdminCredential("garbage"))
}
