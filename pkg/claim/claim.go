package claim

import (
	"context"
	"fmt"

	"clubhouse/pkg/model"
)

// Claimer registers short-lived booking intents on (resource, period) keys.
// A claim closes the race window between the durable overlap check and the
// reservation insert: exactly one concurrent caller may hold the claim for a
// given key, across every service instance sharing the store.
//
// Claims are advisory and sit in front of, not instead of, the durable
// overlap check. They are released explicitly on cancel/reject/delete and by
// the losing branch of a failed insert; the TTL is only a safety net for
// claimants that crash in between.
type Claimer interface {
	// Claim atomically registers an intent for the key if and only if no
	// claim exists yet. Returns true when the caller won the claim.
	Claim(ctx context.Context, resourceID string, period model.Period) (bool, error)

	// Release removes the claim so the slot becomes claimable again.
	// Releasing an absent claim is not an error.
	Release(ctx context.Context, resourceID string, period model.Period) error
}

// Key builds the shared store key for a (resource, period) pair. Period
// bounds are keyed by Unix seconds so the same instant claims the same slot
// regardless of time zone.
func Key(resourceID string, period model.Period) string {
	return fmt.Sprintf("claim:%s:%d-%d", resourceID, period.Start.Unix(), period.End.Unix())
}
