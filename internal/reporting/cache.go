package reporting

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"callcenter-dashboard/pkg/utils"

	"github.com/redis/go-redis/v9"
)

const (
	cachePrefix = "report"
	// scopeKey stands in for the project segment of multi-project reports.
	scopeKey = "_scope"
)

// Cache stores built reports as JSON.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	DeleteMatching(ctx context.Context, pattern string) (int, error)
}

// cacheKey is report:<project>:<kind>:<hash of the request>.
func cacheKey(project, kind string, req any) (string, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("reporting: cache key: %w", err)
	}
	sum := sha256.Sum256(b)
	return fmt.Sprintf("%s:%s:%s:%s", cachePrefix, project, kind, hex.EncodeToString(sum[:8])), nil
}

func projectPattern(project string) string {
	return fmt.Sprintf("%s:%s:*", cachePrefix, project)
}

// RedisCache keeps reports in Redis with a fixed TTL.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("decode cached report %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// DeleteMatching removes every key matching a glob pattern.
func (c *RedisCache) DeleteMatching(ctx context.Context, pattern string) (int, error) {
	return utils.DeleteByPattern(ctx, c.rdb, pattern, 100)
}
