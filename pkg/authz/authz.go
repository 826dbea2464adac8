package authz

import (
	"context"

	"clubhouse/pkg/model"
)

// Capability names an authority a member may hold within their group.
type Capability string

const (
	// CapabilitySchedule allows booking on behalf of others, auto-confirm,
	// deleting any reservation and managing locks.
	CapabilitySchedule Capability = "schedule"

	// CapabilityReadReturns allows reading resource return reports.
	CapabilityReadReturns Capability = "read_returns"
)

// Gate is the authority lookup consulted before every privileged operation.
// Member and authority data are owned by the surrounding club service; the
// engine only reads.
type Gate interface {
	ResolveMember(ctx context.Context, memberID string) (*model.Member, error)
	HasAuthority(ctx context.Context, memberID string, capability Capability) (bool, error)
	AuthorityHolders(ctx context.Context, groupID string, capability Capability) ([]string, error)
}

// Directory resolves resource records, also owned externally.
type Directory interface {
	ResolveResource(ctx context.Context, resourceID string) (*model.Resource, error)
}
