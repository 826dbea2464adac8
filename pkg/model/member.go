package model

// Member mirrors the club service's member record. Approved is false while
// the member's own membership request is still pending.
type Member struct {
	ID       string `json:"id"`
	GroupID  string `json:"group_id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Approved bool   `json:"approved"`
}
