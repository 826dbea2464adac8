package notify

import (
	"context"
)

// Kind names a reservation lifecycle event delivered to members.
type Kind string

const (
	KindReservationRequested Kind = "reservation_requested"
	KindReservationConfirmed Kind = "reservation_confirmed"
	KindReservationRejected  Kind = "reservation_rejected"
	KindReservationDeleted   Kind = "reservation_deleted"
	KindReservationReturned  Kind = "reservation_returned"
	KindReservationInvited   Kind = "reservation_invited"
)

// Event is the payload published for every notification.
type Event struct {
	Kind          Kind        `json:"kind"`
	Recipients    []string    `json:"recipients"`
	ReservationID string      `json:"reservation_id,omitempty"`
	ResourceID    string      `json:"resource_id,omitempty"`
	Actor         string      `json:"actor,omitempty"`
	Detail        interface{} `json:"detail,omitempty"`
}

// Dispatcher delivers reservation events to members. Delivery is best
// effort: reservation state transitions never roll back because a
// notification could not be sent.
type Dispatcher interface {
	Notify(ctx context.Context, event Event)
}
