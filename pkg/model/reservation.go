package model

import "time"

type ReservationStatus string

const (
	StatusRequested ReservationStatus = "requested"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusRejected  ReservationStatus = "rejected"
)

// Occupying reports whether a reservation in this status holds its slot for
// conflict purposes. Rejected reservations free the slot.
func (s ReservationStatus) Occupying() bool {
	return s == StatusRequested || s == StatusConfirmed
}

type Reservation struct {
	ID             string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ResourceID     string            `json:"resource_id" bson:"resource_id" validate:"required"`
	OwnerID        string            `json:"owner_id" bson:"owner_id" validate:"required"`
	Period         Period            `json:"period" bson:",inline"`
	Title          string            `json:"title" bson:"title" validate:"required,min=2,max=100"`
	Usage          string            `json:"usage" bson:"usage" validate:"omitempty,max=500"`
	Sharing        bool              `json:"sharing" bson:"sharing"`
	Status         ReservationStatus `json:"status" bson:"status" validate:"required,oneof=requested confirmed rejected"`
	RejectMessage  string            `json:"reject_message,omitempty" bson:"reject_message,omitempty"`
	IsReturned     bool              `json:"is_returned" bson:"is_returned"`
	ReturnMessage  string            `json:"return_message,omitempty" bson:"return_message,omitempty"`
	Invitees       []string          `json:"invitees" bson:"invitees"`
	Attachments    []string          `json:"attachments" bson:"attachments"`
	CreatedAt      time.Time         `json:"created_at" bson:"created_at"`
	LastModifiedAt time.Time         `json:"last_modified_at" bson:"last_modified_at"`
}

type ReservationCreate struct {
	ResourceID string    `json:"resource_id" validate:"required"`
	OwnerID    string    `json:"owner_id,omitempty"`
	StartTime  time.Time `json:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Title      string    `json:"title" validate:"required,min=2,max=100"`
	Usage      string    `json:"usage" validate:"omitempty,max=500"`
	Sharing    bool      `json:"sharing"`
	Invitees   []string  `json:"invitees" validate:"omitempty,max=50"`
}

// ReservationUpdate carries the fields a reservation owner may edit in
// place. Nil pointers mean "leave unchanged"; invitees, when supplied,
// replace the stored list wholesale. The period fields exist only so the
// engine can verify the caller is not attempting a time move.
type ReservationUpdate struct {
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Title     *string    `json:"title,omitempty" validate:"omitempty,min=2,max=100"`
	Usage     *string    `json:"usage,omitempty" validate:"omitempty,max=500"`
	Sharing   *bool      `json:"sharing,omitempty"`
	Invitees  *[]string  `json:"invitees,omitempty" validate:"omitempty,max=50"`
}

type ReservationReturn struct {
	Message     string   `json:"message" validate:"required,min=1,max=500"`
	Attachments []string `json:"attachments" validate:"omitempty,max=10,dive,url"`
}
