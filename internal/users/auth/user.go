// Copyright (c) 2026 Lektura. All rights reserved.
// Author: dev@lektura.app

/*
Package auth proxies the authentication flows to the external identity
provider and shapes the results for API clients.

The service holds no passwords and issues no tokens of its own; it
forwards sign-in, sign-up, confirmation and sign-out to the provider and
augments the responses with the profile fields clients render.
*/
package auth

import "time"

// Profile is the client-facing account representation.
type Profile struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// SessionPayload is the response to a successful sign-in.
type SessionPayload struct {
	Token     string  `json:"token"`
	ExpiresIn int     `json:"expiresIn,omitempty"`
	User      Profile `json:"user"`
}

// CachedProfile is the Redis representation of a resolved principal.
type CachedProfile struct {
	Profile  Profile   `json:"profile"`
	CachedAt time.Time `json:"cachedAt"`
}
