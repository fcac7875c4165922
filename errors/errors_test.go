package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := New(ErrCodeNotFound, "stream not found", http.StatusNotFound)
	want := "NOT_FOUND: stream not found"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestAppError_ErrorWithCause(t *testing.T) {
	cause := stderrors.New("socket closed")
	err := Internal(cause)
	if err.Unwrap() != cause {
		t.Error("expected Unwrap to return the cause")
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to match the cause")
	}
}

func TestAppError_WithCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Validation("bad frame").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set")
	}
}

func TestAppError_WithDetail(t *testing.T) {
	err := Validation("bad count").WithDetail("field", "count")
	if err.Details["field"] != "count" {
		t.Errorf("expected detail field 'count', got %v", err.Details["field"])
	}
}

func TestNew_RetryableDetection(t *testing.T) {
	err := New(ErrCodeTimeout, "took too long", http.StatusGatewayTimeout)
	if !err.Retryable {
		t.Error("expected TIMEOUT to be retryable")
	}

	err = New(ErrCodeInvalidInput, "bad input", http.StatusBadRequest)
	if err.Retryable {
		t.Error("expected INVALID_INPUT to not be retryable")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   ErrorCode
		status int
	}{
		{"ServiceUnavailable", ServiceUnavailable("stream hub"), ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		{"Timeout", Timeout("stream"), ErrCodeTimeout, http.StatusGatewayTimeout},
		{"NotFound", NotFound("stream", "abc"), ErrCodeNotFound, http.StatusNotFound},
		{"InvalidInput", InvalidInput("count", "must be positive"), ErrCodeInvalidInput, http.StatusBadRequest},
		{"Validation", Validation("bad config"), ErrCodeInvalidInput, http.StatusBadRequest},
		{"StreamUnsupported", StreamUnsupported(), ErrCodeStreamUnsupported, http.StatusInternalServerError},
		{"Internal", Internal(stderrors.New("boom")), ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.HTTPStatus != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.HTTPStatus)
			}
		})
	}
}

func TestToResponse(t *testing.T) {
	err := NotFound("stream", "abc")
	resp := err.ToResponse()
	if resp.Error.Code != ErrCodeNotFound {
		t.Errorf("expected code NOT_FOUND, got %s", resp.Error.Code)
	}
	if resp.Error.Details["id"] != "abc" {
		t.Errorf("expected id detail 'abc', got %v", resp.Error.Details["id"])
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Validation("nope")
	wrapped := fmt.Errorf("handler: %w", appErr)

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected wrapped AppError to be detected")
	}
	if got != appErr {
		t.Error("expected the original AppError back")
	}

	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("expected plain error to not be an AppError")
	}
	if IsAppError(stderrors.New("plain")) {
		t.Error("expected IsAppError false for plain error")
	}
}
