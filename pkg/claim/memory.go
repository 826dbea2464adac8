package claim

import (
	"context"
	"sync"
	"time"

	"clubhouse/pkg/model"
)

// MemoryClaimer is a process-local Claimer for tests and single-instance
// development. It honors the same contract as the Redis implementation but
// cannot coordinate across processes.
type MemoryClaimer struct {
	mu     sync.Mutex
	claims map[string]time.Time
	ttl    time.Duration
}

func NewMemoryClaimer(ttl time.Duration) *MemoryClaimer {
	return &MemoryClaimer{
		claims: make(map[string]time.Time),
		ttl:    ttl,
	}
}

func (c *MemoryClaimer) Claim(_ context.Context, resourceID string, period model.Period) (bool, error) {
	key := Key(resourceID, period)

	c.mu.Lock()
	defer c.mu.Unlock()

	if expiresAt, ok := c.claims[key]; ok && time.Now().Before(expiresAt) {
		return false, nil
	}

	c.claims[key] = time.Now().Add(c.ttl)
	return true, nil
}

func (c *MemoryClaimer) Release(_ context.Context, resourceID string, period model.Period) error {
	key := Key(resourceID, period)

	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.claims, key)
	return nil
}
