// Package cache stores validation results in Redis keyed by a hash of the
// template, so identical submissions are scored once per TTL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "docmagic/internal/common/errors"
	"docmagic/internal/templates"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tplval:"

type ResultCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func New(client redis.Cmdable, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

// Key hashes the canonical JSON form of t. Map keys are sorted by
// encoding/json, so equal templates always share a key.
func Key(t templates.TemplateContent) (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("encode template for cache key: %w", err)
	}
	sum := sha256.Sum256(data)
	return keyPrefix + hex.EncodeToString(sum[:]), nil
}

// Get returns the cached result for key. A miss is (nil, false, nil).
func (c *ResultCache) Get(ctx context.Context, key string) (*templates.ValidationResult, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewCacheOperationFailedError("get", err)
	}

	var result templates.ValidationResult
	if err := json.Unmarshal(val, &result); err != nil {
		return nil, false, apperrors.NewCacheOperationFailedError("decode", err)
	}
	return &result, true, nil
}

func (c *ResultCache) Set(ctx context.Context, key string, result templates.ValidationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return apperrors.NewCacheOperationFailedError("encode", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return apperrors.NewCacheOperationFailedError("set", err)
	}
	return nil
}
