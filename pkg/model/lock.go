package model

import "time"

// Lock is an administrator-defined blackout period on a resource,
// independent of any reservation.
type Lock struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ResourceID     string    `json:"resource_id" bson:"resource_id" validate:"required"`
	Period         Period    `json:"period" bson:",inline"`
	Message        string    `json:"message" bson:"message" validate:"omitempty,max=500"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	LastModifiedAt time.Time `json:"last_modified_at" bson:"last_modified_at"`
}

type LockCreate struct {
	ResourceID string    `json:"resource_id" validate:"required"`
	StartTime  time.Time `json:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Message    string    `json:"message" validate:"omitempty,max=500"`
}

type LockUpdate struct {
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Message   *string    `json:"message,omitempty" validate:"omitempty,max=500"`
}
