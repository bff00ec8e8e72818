package search

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/almoxarifado/catalogo/internal/catalog"
	"github.com/almoxarifado/catalogo/internal/catalog/remote"
)

const (
	cacheVersionKey = "catalog:search:version"
	cacheKeyPrefix  = "catalog:search"
)

// Cache stores remote search responses in Redis under versioned keys.
// Bumping the version invalidates every cached response at once.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper. A zero ttl disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Enabled reports whether responses are cached.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// Key composes the versioned cache key of a query.
func (c *Cache) Key(ctx context.Context, mode remote.QueryMode, q remote.Query) (string, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d:%s", cacheKeyPrefix, ver, queryDigest(mode, q)), nil
}

// Get loads a cached response. The boolean reports a hit.
func (c *Cache) Get(ctx context.Context, key string) ([]catalog.Item, bool, error) {
	if !c.Enabled() {
		return nil, false, nil
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var items []catalog.Item
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

// Set stores a response for the configured ttl.
func (c *Cache) Set(ctx context.Context, key string, items []catalog.Item) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Bump invalidates cached responses by incrementing the version.
func (c *Cache) Bump(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}

func queryDigest(mode remote.QueryMode, q remote.Query) string {
	canonical := strings.Join([]string{string(mode), q.Code, q.Description, q.Supplier}, "\x00")
	sum := blake2b.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
