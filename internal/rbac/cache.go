package rbac

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// PermissionCache memoizes the context-free permission union per user in
// Redis. Scoped checks never go through it; only the coarse capability
// listing and nil-scope point queries do. Concurrent misses for the same user
// are collapsed with singleflight.
type PermissionCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewPermissionCache constructs a cache.
func NewPermissionCache(client *redis.Client, ttl time.Duration) *PermissionCache {
	return &PermissionCache{client: client, ttl: ttl}
}

// Load returns the cached permission union for the user, calling loader on a
// miss and storing the result. Cache failures degrade to the loader.
func (c *PermissionCache) Load(ctx context.Context, userID string, loader func(context.Context) ([]string, error)) ([]string, error) {
	if c == nil {
		return loader(ctx)
	}
	if perms, ok := c.get(ctx, userID); ok {
		return perms, nil
	}

	result, err, _ := c.group.Do(userID, func() (any, error) {
		if perms, ok := c.get(ctx, userID); ok {
			return perms, nil
		}
		perms, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		c.set(ctx, userID, perms)
		return perms, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

// Invalidate drops the cached union for a user. Called after grants and
// revocations so stale capability listings do not outlive the change.
func (c *PermissionCache) Invalidate(ctx context.Context, userID string) {
	if c == nil {
		return
	}
	_ = c.client.Del(ctx, c.key(userID)).Err()
}

func (c *PermissionCache) get(ctx context.Context, userID string) ([]string, bool) {
	raw, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		// Any cache failure is a miss, redis.Nil or otherwise.
		return nil, false
	}
	var perms []string
	if err := json.Unmarshal(raw, &perms); err != nil {
		return nil, false
	}
	return perms, true
}

func (c *PermissionCache) set(ctx context.Context, userID string, perms []string) {
	raw, err := json.Marshal(perms)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key(userID), raw, c.ttl).Err()
}

func (c *PermissionCache) key(userID string) string {
	return "rbac:perms:" + userID
}
