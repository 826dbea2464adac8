package claim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"clubhouse/pkg/model"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript deletes the claim only if it still carries the token this
// instance set. After a TTL expiry the key may belong to another claimant;
// an unconditional DEL would steal it.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisClaimer implements Claimer on a shared Redis instance. SET NX is the
// single atomic conditional write that serializes concurrent claimants; no
// separate check precedes it.
type RedisClaimer struct {
	client *redis.Client
	ttl    time.Duration
	tokens sync.Map
}

func NewRedisClaimer(client *redis.Client, ttl time.Duration) *RedisClaimer {
	return &RedisClaimer{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisClaimer) Claim(ctx context.Context, resourceID string, period model.Period) (bool, error) {
	key := Key(resourceID, period)
	token := uuid.New().String()

	won, err := c.client.SetNX(ctx, key, token, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim %s: %w", key, err)
	}
	if won {
		c.tokens.Store(key, token)
	}
	return won, nil
}

func (c *RedisClaimer) Release(ctx context.Context, resourceID string, period model.Period) error {
	key := Key(resourceID, period)

	// When this instance holds the token, release compare-and-deletes.
	// Otherwise (reject/delete issued from another instance) the claim is
	// removed unconditionally.
	if token, ok := c.tokens.LoadAndDelete(key); ok {
		err := releaseScript.Run(ctx, c.client, []string{key}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("failed to release %s: %w", key, err)
		}
		return nil
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release %s: %w", key, err)
	}
	return nil
}
