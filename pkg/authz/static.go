package authz

import (
	"context"

	apperrors "clubhouse/pkg/errors"
	"clubhouse/pkg/model"
)

// StaticGate serves fixed member and authority data. Used in tests and
// local development where no members service is running.
type StaticGate struct {
	Members     map[string]*model.Member
	Authorities map[string][]Capability
}

func NewStaticGate() *StaticGate {
	return &StaticGate{
		Members:     make(map[string]*model.Member),
		Authorities: make(map[string][]Capability),
	}
}

func (g *StaticGate) AddMember(m *model.Member, capabilities ...Capability) *StaticGate {
	g.Members[m.ID] = m
	g.Authorities[m.ID] = capabilities
	return g
}

func (g *StaticGate) ResolveMember(_ context.Context, memberID string) (*model.Member, error) {
	member, ok := g.Members[memberID]
	if !ok {
		return nil, apperrors.NotFoundWithID("Member", memberID)
	}
	return member, nil
}

func (g *StaticGate) HasAuthority(_ context.Context, memberID string, capability Capability) (bool, error) {
	for _, c := range g.Authorities[memberID] {
		if c == capability {
			return true, nil
		}
	}
	return false, nil
}

func (g *StaticGate) AuthorityHolders(_ context.Context, groupID string, capability Capability) ([]string, error) {
	var holders []string
	for id, capabilities := range g.Authorities {
		member, ok := g.Members[id]
		if !ok || member.GroupID != groupID {
			continue
		}
		for _, c := range capabilities {
			if c == capability {
				holders = append(holders, id)
				break
			}
		}
	}
	return holders, nil
}

// StaticDirectory serves fixed resource records.
type StaticDirectory struct {
	Resources map[string]*model.Resource
}

func NewStaticDirectory(resources ...*model.Resource) *StaticDirectory {
	d := &StaticDirectory{Resources: make(map[string]*model.Resource)}
	for _, r := range resources {
		d.Resources[r.ID] = r
	}
	return d
}

func (d *StaticDirectory) ResolveResource(_ context.Context, resourceID string) (*model.Resource, error) {
	resource, ok := d.Resources[resourceID]
	if !ok {
		return nil, apperrors.NotFoundWithID("Resource", resourceID)
	}
	return resource, nil
}
