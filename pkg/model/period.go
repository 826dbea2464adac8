package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned when a period's start is not strictly before
// its end.
var ErrInvalidRange = errors.New("period start must be before end")

// Period is a half-open time interval [Start, End). Two periods that merely
// touch (one ends exactly when the other starts) do not overlap, so a
// reservation ending at 18:00 never conflicts with one starting at 18:00.
type Period struct {
	Start time.Time `json:"start_time" bson:"start_time" validate:"required"`
	End   time.Time `json:"end_time" bson:"end_time" validate:"required"`
}

func NewPeriod(start, end time.Time) (Period, error) {
	if !start.Before(end) {
		return Period{}, fmt.Errorf("%w: start=%s end=%s", ErrInvalidRange,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Period{Start: start, End: end}, nil
}

func (p Period) Overlaps(other Period) bool {
	return p.Start.Before(other.End) && other.Start.Before(p.End)
}

func (p Period) Equal(other Period) bool {
	return p.Start.Equal(other.Start) && p.End.Equal(other.End)
}

func (p Period) String() string {
	return fmt.Sprintf("%s - %s", p.Start.Format(time.RFC3339), p.End.Format(time.RFC3339))
}
