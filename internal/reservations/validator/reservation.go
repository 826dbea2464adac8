package validator

import (
	"errors"
	"fmt"
	"strings"

	"clubhouse/pkg/logger"
	"clubhouse/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ReservationValidator struct {
	validate    *validator.Validate
	logger      *logger.Logger
	maxInvitees int
}

func NewReservationValidator(log *logger.Logger, maxInvitees int) *ReservationValidator {
	return &ReservationValidator{
		validate:    validator.New(),
		logger:      log,
		maxInvitees: maxInvitees,
	}
}

func (v *ReservationValidator) ValidateCreate(input *model.ReservationCreate) error {
	if err := v.validate.Struct(input); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !input.EndTime.After(input.StartTime) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time",
			},
		}
	}

	if len(input.Invitees) > v.maxInvitees {
		return ValidationErrors{
			ValidationError{
				Field:   "Invitees",
				Message: fmt.Sprintf("invitee count (%d) exceeds maximum (%d)", len(input.Invitees), v.maxInvitees),
			},
		}
	}

	return nil
}

func (v *ReservationValidator) ValidateUpdate(update *model.ReservationUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.Invitees != nil && len(*update.Invitees) > v.maxInvitees {
		return ValidationErrors{
			ValidationError{
				Field:   "Invitees",
				Message: fmt.Sprintf("invitee count (%d) exceeds maximum (%d)", len(*update.Invitees), v.maxInvitees),
			},
		}
	}

	return nil
}

func (v *ReservationValidator) ValidateReturn(input *model.ReservationReturn) error {
	if err := v.validate.Struct(input); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// ValidateStored checks a reservation document before it is written back,
// catching merge results that would violate the document schema.
func (v *ReservationValidator) ValidateStored(reservation *model.Reservation) error {
	if err := v.validate.Struct(reservation); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !reservation.Period.End.After(reservation.Period.Start) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time",
			},
		}
	}

	return nil
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "url":
			message = fmt.Sprintf("%s must contain valid URLs", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
