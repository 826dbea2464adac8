package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"clubhouse/pkg/model"
)

const memberHeader = "X-Member-ID"

type Metadata struct {
	TotalCount int64
	Limit      int
	Offset     int64
}

// ReservationClient is a thin typed client for the reservations service,
// used by sibling services and tooling.
type ReservationClient struct {
	httpClient *HttpClient
	memberID   string
}

func NewReservationClient(baseURL, memberID string) *ReservationClient {
	return &ReservationClient{
		httpClient: NewHttpClient(baseURL),
		memberID:   memberID,
	}
}

func (c *ReservationClient) headers() map[string]string {
	return map[string]string{memberHeader: c.memberID}
}

func (c *ReservationClient) Create(ctx context.Context, body *model.ReservationCreate) (*Response, error) {
	return c.httpClient.POSTWithHeaders(ctx, "/api/v1/reservations", body, c.headers())
}

func (c *ReservationClient) GetByID(ctx context.Context, id string) (*Response, error) {
	path := "/api/v1/reservations/id/" + url.PathEscape(id)
	return c.httpClient.request(ctx, "GET", path, nil, c.headers())
}

func (c *ReservationClient) Update(ctx context.Context, id string, body *model.ReservationUpdate) (*Response, error) {
	path := "/api/v1/reservations/id/" + url.PathEscape(id)
	return c.httpClient.request(ctx, "PATCH", path, body, c.headers())
}

func (c *ReservationClient) Cancel(ctx context.Context, id string) (*Response, error) {
	path := "/api/v1/reservations/id/" + url.PathEscape(id)
	return c.httpClient.request(ctx, "DELETE", path, nil, c.headers())
}

func (c *ReservationClient) Search(ctx context.Context, resourceID, startTime, endTime string) (*Response, error) {
	q := url.Values{}
	q.Set("resource_id", resourceID)
	q.Set("start_time", startTime)
	q.Set("end_time", endTime)
	return c.httpClient.request(ctx, "GET", "/api/v1/reservations/search?"+q.Encode(), nil, c.headers())
}

func (c *ReservationClient) Mine(ctx context.Context, scope string) (*Response, error) {
	q := url.Values{}
	q.Set("scope", scope)
	return c.httpClient.request(ctx, "GET", "/api/v1/reservations/mine?"+q.Encode(), nil, c.headers())
}

func (c *ReservationClient) DecodeReservation(resp *Response) (*model.Reservation, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode reservation wrapper: %w", err)
	}

	var reservation model.Reservation
	if err := json.Unmarshal(wrapper.Data, &reservation); err != nil {
		return nil, fmt.Errorf("could not decode reservation json: %w", err)
	}
	return &reservation, nil
}

func (c *ReservationClient) DecodeReservations(resp *Response) ([]*model.Reservation, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp: %w", err)
	}

	var reservations []*model.Reservation
	if err := json.Unmarshal(wrapper.Data, &reservations); err != nil {
		return nil, nil, fmt.Errorf("could not decode reservation list: %w", err)
	}

	metadata := &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}
	return reservations, metadata, nil
}
