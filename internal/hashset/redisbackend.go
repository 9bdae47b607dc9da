package hashset

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	aetherrors "github.com/iakinsey/aetherscope/internal/errors"
)

// RedisBackend is the shared, networked hash-set backend. It is subject to
// a benign race: concurrent callers may both observe absence and both
// insert, both seeing ExistedBefore=false. Callers relying on exactly-once
// must layer an additional lease on top.
type RedisBackend struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisBackend wraps client. keyPrefix namespaces entity keys; ttl of
// zero means keys never expire.
func NewRedisBackend(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, prefix: keyPrefix, ttl: ttl}
}

func (b *RedisBackend) ContainsEntities(ctx context.Context, entities []string) ([]EntityResult, error) {
	if len(entities) == 0 {
		return nil, nil
	}

	keys := make([]string, len(entities))
	for i, e := range entities {
		keys[i] = b.prefix + e
	}

	vals, err := b.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, aetherrors.NewIOError("mget", err)
	}

	results := make([]EntityResult, len(entities))
	pipe := b.client.Pipeline()
	pending := false
	for i, v := range vals {
		existed := v != nil
		results[i] = EntityResult{Entity: entities[i], ExistedBefore: existed}
		if !existed {
			pipe.SetNX(ctx, keys[i], 1, b.ttl)
			pending = true
		}
	}
	if pending {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, aetherrors.NewIOError("pipeline setnx", err)
		}
	}
	return results, nil
}
