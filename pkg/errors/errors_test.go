package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("database connection failed")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "reservation not found",
			},
			expected: "NOT_FOUND: reservation not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "operation failed",
				Err:     errors.New("connection refused"),
			},
			expected: "INTERNAL_ERROR: operation failed (caused by: connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestDomainConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"reservation unavailable", ReservationUnavailable("slot taken"), CodeReservationUnavailable, http.StatusConflict},
		{"period overlapped", PeriodOverlapped("lock overlaps"), CodePeriodOverlapped, http.StatusConflict},
		{"period invalid", PeriodInvalid("start after end"), CodePeriodInvalid, http.StatusBadRequest},
		{"bookable span exceeded", BookableSpanExceeded(7), CodeBookableSpanExceeded, http.StatusBadRequest},
		{"different group", DifferentGroup("wrong club"), CodeDifferentGroup, http.StatusForbidden},
		{"authorization denied", AuthorizationDenied("not the owner"), CodeAuthorizationDenied, http.StatusForbidden},
		{"not confirmed member", NotConfirmedMember("m1"), CodeNotConfirmedMember, http.StatusForbidden},
		{"request invalid", RequestInvalid("period changed"), CodeRequestInvalid, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.err.HTTPStatus)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	err := ReservationUnavailable("claimed by another request")

	if !HasCode(err, CodeReservationUnavailable) {
		t.Error("expected HasCode to match RESERVATION_UNAVAILABLE")
	}
	if HasCode(err, CodeNotFound) {
		t.Error("expected HasCode to reject a different code")
	}
	if HasCode(errors.New("plain"), CodeNotFound) {
		t.Error("expected HasCode to reject non-AppError values")
	}
}

func TestAsAppError(t *testing.T) {
	plain := errors.New("boom")
	converted := AsAppError(plain)

	if converted.Code != CodeInternal {
		t.Errorf("expected plain errors to convert to %s, got %s", CodeInternal, converted.Code)
	}
	if !errors.Is(converted, plain) {
		t.Error("expected converted error to wrap the original")
	}

	appErr := NotFound("lock")
	if AsAppError(appErr) != appErr {
		t.Error("expected AppError to pass through unchanged")
	}
}
