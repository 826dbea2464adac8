package authz

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"clubhouse/pkg/client"
	apperrors "clubhouse/pkg/errors"
	"clubhouse/pkg/model"
)

// HTTPGate queries the members service for member records and authority
// grants.
type HTTPGate struct {
	httpClient *client.HttpClient
}

func NewHTTPGate(baseURL string) *HTTPGate {
	return &HTTPGate{
		httpClient: client.NewHttpClient(baseURL),
	}
}

func (g *HTTPGate) ResolveMember(ctx context.Context, memberID string) (*model.Member, error) {
	resp, err := g.httpClient.GET(ctx, "/api/v1/members/"+url.PathEscape(memberID))
	if err != nil {
		return nil, apperrors.Internal("failed to query members service", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NotFoundWithID("Member", memberID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Internal(fmt.Sprintf("members service returned status %d", resp.StatusCode), nil)
	}

	var wrapper struct {
		Data model.Member `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, apperrors.Internal("failed to decode member response", err)
	}
	return &wrapper.Data, nil
}

func (g *HTTPGate) HasAuthority(ctx context.Context, memberID string, capability Capability) (bool, error) {
	path := fmt.Sprintf("/api/v1/members/%s/authorities/%s",
		url.PathEscape(memberID), url.PathEscape(string(capability)))

	resp, err := g.httpClient.GET(ctx, path)
	if err != nil {
		return false, apperrors.Internal("failed to query members service", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, apperrors.Internal(fmt.Sprintf("members service returned status %d", resp.StatusCode), nil)
	}
}

func (g *HTTPGate) AuthorityHolders(ctx context.Context, groupID string, capability Capability) ([]string, error) {
	q := url.Values{}
	q.Set("group_id", groupID)
	q.Set("capability", string(capability))

	resp, err := g.httpClient.GET(ctx, "/api/v1/authorities?"+q.Encode())
	if err != nil {
		return nil, apperrors.Internal("failed to query members service", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Internal(fmt.Sprintf("members service returned status %d", resp.StatusCode), nil)
	}

	var wrapper struct {
		Data []string `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, apperrors.Internal("failed to decode authority holders response", err)
	}
	return wrapper.Data, nil
}

// HTTPDirectory resolves resources from the club service.
type HTTPDirectory struct {
	httpClient *client.HttpClient
}

func NewHTTPDirectory(baseURL string) *HTTPDirectory {
	return &HTTPDirectory{
		httpClient: client.NewHttpClient(baseURL),
	}
}

func (d *HTTPDirectory) ResolveResource(ctx context.Context, resourceID string) (*model.Resource, error) {
	resp, err := d.httpClient.GET(ctx, "/api/v1/resources/"+url.PathEscape(resourceID))
	if err != nil {
		return nil, apperrors.Internal("failed to query club service", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NotFoundWithID("Resource", resourceID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Internal(fmt.Sprintf("club service returned status %d", resp.StatusCode), nil)
	}

	var wrapper struct {
		Data model.Resource `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, apperrors.Internal("failed to decode resource response", err)
	}
	return &wrapper.Data, nil
}
