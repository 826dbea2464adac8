package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"clubhouse/pkg/model"
)

// LockClient is a thin typed client for the locks service.
type LockClient struct {
	httpClient *HttpClient
	memberID   string
}

func NewLockClient(baseURL, memberID string) *LockClient {
	return &LockClient{
		httpClient: NewHttpClient(baseURL),
		memberID:   memberID,
	}
}

func (c *LockClient) headers() map[string]string {
	return map[string]string{memberHeader: c.memberID}
}

func (c *LockClient) Create(ctx context.Context, body *model.LockCreate) (*Response, error) {
	return c.httpClient.POSTWithHeaders(ctx, "/api/v1/locks", body, c.headers())
}

func (c *LockClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.request(ctx, "GET", "/api/v1/locks/id/"+url.PathEscape(id), nil, c.headers())
}

func (c *LockClient) Update(ctx context.Context, id string, body *model.LockUpdate) (*Response, error) {
	return c.httpClient.request(ctx, "PATCH", "/api/v1/locks/id/"+url.PathEscape(id), body, c.headers())
}

func (c *LockClient) Delete(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.request(ctx, "DELETE", "/api/v1/locks/id/"+url.PathEscape(id), nil, c.headers())
}

func (c *LockClient) ListBetween(ctx context.Context, resourceID, startTime, endTime string) (*Response, error) {
	q := url.Values{}
	q.Set("resource_id", resourceID)
	q.Set("start_time", startTime)
	q.Set("end_time", endTime)
	return c.httpClient.request(ctx, "GET", "/api/v1/locks?"+q.Encode(), nil, c.headers())
}

func (c *LockClient) DecodeLock(resp *Response) (*model.Lock, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode lock wrapper: %w", err)
	}

	var lock model.Lock
	if err := json.Unmarshal(wrapper.Data, &lock); err != nil {
		return nil, fmt.Errorf("could not decode lock json: %w", err)
	}
	return &lock, nil
}

func (c *LockClient) DecodeLocks(resp *Response) ([]*model.Lock, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode lock list wrapper: %w", err)
	}

	var locks []*model.Lock
	if err := json.Unmarshal(wrapper.Data, &locks); err != nil {
		return nil, fmt.Errorf("could not decode lock list: %w", err)
	}
	return locks, nil
}
