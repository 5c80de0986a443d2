// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package strain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/cabinet/internal/platform/constants"
)

// catalogKey holds the JSON encoded, name-sorted catalogue.
const catalogKey = constants.RedisPrefixCatalog + "all"

// RedisCatalogCache implements [CatalogCache] as a single JSON value in Redis.
type RedisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a Redis-backed [CatalogCache]. Entries expire after ttl.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *RedisCatalogCache {
	return &RedisCatalogCache{client: client, ttl: ttl}
}

/*
Get loads the cached catalogue.

Parameters:
  - context: context.Context

Returns:
  - []*Strain: Cached strains
  - bool: false on a miss
  - error: Connectivity or decoding errors
*/
func (cache *RedisCatalogCache) Get(context context.Context) ([]*Strain, bool, error) {
	payload, err := cache.client.Get(context, catalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis_catalog_get_failed: %w", err)
	}

	var strains []*Strain
	if err := json.Unmarshal(payload, &strains); err != nil {
		return nil, false, fmt.Errorf("redis_catalog_decode_failed: %w", err)
	}
	return strains, true, nil
}

// Set replaces the cached catalogue.
func (cache *RedisCatalogCache) Set(context context.Context, strains []*Strain) error {
	payload, err := json.Marshal(strains)
	if err != nil {
		return fmt.Errorf("redis_catalog_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, catalogKey, payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_catalog_set_failed: %w", err)
	}
	return nil
}

// Invalidate drops the cached catalogue so the next read rebuilds it.
func (cache *RedisCatalogCache) Invalidate(context context.Context) error {
	if err := cache.client.Del(context, catalogKey).Err(); err != nil {
		return fmt.Errorf("redis_catalog_invalidate_failed: %w", err)
	}
	return nil
}
