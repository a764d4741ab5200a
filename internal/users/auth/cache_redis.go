// Copyright (c) 2026 Lektura. All rights reserved.
// Author: dev@lektura.app

package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lekturahq/lektura/internal/platform/constants"
)

// ProfileCache stores resolved principals keyed by credential, so repeated
// profile lookups do not hit the identity provider on every request.
type ProfileCache interface {
	Get(context context.Context, credential string) (*Profile, error)
	Set(context context.Context, credential string, profile Profile, ttl time.Duration) error
	Delete(context context.Context, credential string) error
}

// RedisProfileCache implements ProfileCache using Redis.
type RedisProfileCache struct {
	client *redis.Client
}

// NewRedisProfileCache creates a new Redis-backed ProfileCache.
func NewRedisProfileCache(client *redis.Client) *RedisProfileCache {
	return &RedisProfileCache{client: client}
}

// cacheKey derives the Redis key for a credential. Credentials are hashed:
// raw tokens never appear in the keyspace.
func cacheKey(credential string) string {
	digest := sha256.Sum256([]byte(credential))
	return constants.RedisPrefixPrincipal + hex.EncodeToString(digest[:])
}

/*
Get retrieves the cached profile for a credential.

Description: Returns (nil, nil) on a cache miss so callers can fall back to
the identity provider without treating the miss as a fault.

Parameters:
  - context: context.Context
  - credential: string

Returns:
  - *Profile: The cached profile, or nil on miss
  - error: Connectivity or decoding errors
*/
func (cache *RedisProfileCache) Get(context context.Context, credential string) (*Profile, error) {
	payload, err := cache.client.Get(context, cacheKey(credential)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_profile_get_failed: %w", err)
	}

	entry := CachedProfile{}
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, fmt.Errorf("redis_profile_decode_failed: %w", err)
	}

	return &entry.Profile, nil
}

/*
Set stores a resolved profile with its TTL.

Parameters:
  - context: context.Context
  - credential: string
  - profile: Profile
  - ttl: time.Duration

Returns:
  - error: Storage failures
*/
func (cache *RedisProfileCache) Set(context context.Context, credential string, profile Profile, ttl time.Duration) error {
	entry := CachedProfile{Profile: profile, CachedAt: time.Now().UTC()}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("redis_profile_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, cacheKey(credential), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_profile_set_failed: %w", err)
	}

	return nil
}

// Delete evicts the cached profile for a credential, used on sign-out.
func (cache *RedisProfileCache) Delete(context context.Context, credential string) error {
	if err := cache.client.Del(context, cacheKey(credential)).Err(); err != nil {
		return fmt.Errorf("redis_profile_delete_failed: %w", err)
	}
	return nil
}
