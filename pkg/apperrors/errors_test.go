package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"
)

func TestErrorIsSentinel(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		target error
		status int
	}{
		{"validation", Validation("product", "price", "must be >= 0"), ErrValidation, http.StatusBadRequest},
		{"conflict", Conflict("like", "already exists", nil), ErrConflict, http.StatusConflict},
		{"not found", NotFound("category", 7), ErrNotFound, http.StatusNotFound},
		{"missing parent", MissingReference("product", "category_id", nil), ErrNotFound, http.StatusNotFound},
		{"storage", Storage("create product", errors.New("boom")), ErrStorage, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("service: %w", tc.err)
			if !errors.Is(wrapped, tc.target) {
				t.Errorf("Expected %v to match %v", wrapped, tc.target)
			}
			if got := HTTPStatus(wrapped); got != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, got)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := Validation("user_address", "pincode", "must be at most %d characters", 6)
	if got := err.Error(); got != "user_address: pincode: must be at most 6 characters" {
		t.Errorf("Unexpected message: %q", got)
	}
}

func TestKindOfPlainErrors(t *testing.T) {
	if KindOf(gorm.ErrRecordNotFound) != KindNotFound {
		t.Error("Expected gorm.ErrRecordNotFound to be classified as not found")
	}
	if KindOf(errors.New("connection reset")) != KindStorage {
		t.Error("Expected unknown error to be classified as storage")
	}
	if IsNotFound(nil) {
		t.Error("nil must not be reported as not found")
	}
}
