package model

// Resource is a bookable asset owned by a club group. Resource records are
// owned by the surrounding club service and referenced here by id only.
type Resource struct {
	ID               string `json:"id"`
	GroupID          string `json:"group_id"`
	Name             string `json:"name"`
	BookableSpanDays int    `json:"bookable_span_days"`
}
