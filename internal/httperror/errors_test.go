package httperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/park285/dermacare-server-go/internal/upstream"
)

func TestFromErrorMapping(t *testing.T) {
	apiErr := FromError(upstream.Status(upstream.ServicePlaces, "nearby", 503, ""))
	if apiErr == nil || apiErr.Code != ErrorCodeUpstream || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected upstream error with 500, got %+v", apiErr)
	}

	timeout := upstream.New(upstream.ServicePlaces, "nearby", context.DeadlineExceeded)
	apiErr = FromError(fmt.Errorf("search: %w", timeout))
	if apiErr == nil || apiErr.Code != ErrorCodeUpstreamTimeout || apiErr.Status != http.StatusGatewayTimeout {
		t.Fatalf("expected upstream timeout with 504, got %+v", apiErr)
	}

	apiErr = FromError(context.DeadlineExceeded)
	if apiErr == nil || apiErr.Code != ErrorCodeUpstreamTimeout {
		t.Fatalf("expected timeout error")
	}
}

func TestFromErrorValidation(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
	}
	err := validator.New().Struct(payload{Email: "nope"})
	apiErr := FromError(err)
	if apiErr == nil || apiErr.Status != http.StatusBadRequest || apiErr.Code != ErrorCodeValidation {
		t.Fatalf("expected 400 validation error, got %+v", apiErr)
	}
	fields, ok := apiErr.Details["errors"].([]FieldError)
	if !ok || len(fields) != 1 || fields[0].Field != "Email" {
		t.Fatalf("unexpected details: %+v", apiErr.Details)
	}
}

func TestResponseIncludesRequestID(t *testing.T) {
	status, payload := Response(NewMissingField("input", "Input cannot be empty."), "req-1")
	if status != 400 {
		t.Fatalf("unexpected status: %d", status)
	}
	if payload.RequestID == nil || *payload.RequestID != "req-1" {
		t.Fatalf("expected request id")
	}
	if payload.Error != "Input cannot be empty." || payload.Message != payload.Error {
		t.Fatalf("unexpected summary: %+v", payload)
	}
}

func TestNewMissingField(t *testing.T) {
	err := NewMissingField("username", "")
	if err.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 status, got: %d", err.Status)
	}
	if err.Code != ErrorCodeMissingField {
		t.Fatalf("expected missing field error code")
	}
	if err.Message != "Field 'username' required" {
		t.Fatalf("unexpected default message: %s", err.Message)
	}
}

func TestNewInvalidInput(t *testing.T) {
	err := NewInvalidInput("must be positive")
	if err.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 status, got: %d", err.Status)
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError(errors.New("field validation failed"))
	if err.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 status, got: %d", err.Status)
	}
	fields, ok := err.Details["errors"].([]FieldError)
	if !ok || fields[0].Field != "body" {
		t.Fatalf("expected body field error, got %+v", err.Details)
	}
}

func TestNewUpstreamErrorDetails(t *testing.T) {
	cause := upstream.Status(upstream.ServicePlaces, "nearby", 502, "")
	err := NewUpstreamError("Failed to fetch clinics", cause)
	if err.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", err.Status)
	}
	if err.Details["upstream"] != cause.Error() {
		t.Fatalf("unexpected upstream detail: %v", err.Details["upstream"])
	}
	if err.Details["service"] != upstream.ServicePlaces || err.Details["status_code"] != 502 {
		t.Fatalf("unexpected details: %+v", err.Details)
	}
}

func TestNewUpstreamErrorGatewayTimeout(t *testing.T) {
	err := NewUpstreamError("Failed to fetch clinics", upstream.Status(upstream.ServicePlaces, "nearby", 504, ""))
	if err.Status != http.StatusGatewayTimeout || err.Code != ErrorCodeUpstreamTimeout {
		t.Fatalf("expected 504 timeout mapping, got %+v", err)
	}
}

func TestNewAggregationFailedKeeps500OnTimeout(t *testing.T) {
	cause := upstream.New(upstream.ServiceModel, "stream", context.DeadlineExceeded)
	err := NewAggregationFailed("Failed to generate AI response.", cause)
	if err.Status != http.StatusInternalServerError || err.Code != ErrorCodeAggregation {
		t.Fatalf("unexpected aggregation error: %+v", err)
	}
}

func TestNewIdentityError(t *testing.T) {
	err := NewIdentityError(http.StatusBadRequest, errors.New("EMAIL_EXISTS"))
	if err.Message != "EMAIL_EXISTS" || err.Status != http.StatusBadRequest {
		t.Fatalf("expected provider message relayed, got %+v", err)
	}
}

func TestFromErrorNil(t *testing.T) {
	if FromError(nil) != nil {
		t.Fatalf("expected nil for nil input")
	}
}

func TestFromErrorGeneric(t *testing.T) {
	apiErr := FromError(errors.New("some generic error"))
	if apiErr == nil || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500 for generic error")
	}
}

func TestResponseWithEmptyRequestID(t *testing.T) {
	status, payload := Response(NewInternalError("test"), "")
	if status != 500 {
		t.Fatalf("unexpected status: %d", status)
	}
	if payload.RequestID != nil {
		t.Fatalf("expected nil request id for empty string")
	}
}
