package errors

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func TestWrap_UserMessageIncludesCause(t *testing.T) {
	cause := fmt.Errorf("zip: not a valid zip file")
	err := UnreadableFileWrap(cause)

	if err.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", err.StatusCode)
	}
	if got := err.UserMessage(); got != "An error occurred while reading the file: zip: not a valid zip file" {
		t.Errorf("UserMessage() = %q", got)
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap() should return the cause")
	}
}

func TestGetStatusCode(t *testing.T) {
	tests := map[ErrorCode]int{
		CodeSchema:     http.StatusUnprocessableEntity,
		CodeNoData:     http.StatusConflict,
		CodeBadRequest: http.StatusBadRequest,
		CodeTooLarge:   http.StatusRequestEntityTooLarge,
		CodeRateLimit:  http.StatusTooManyRequests,
		CodeInternal:   http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := getStatusCode(code); got != want {
			t.Errorf("getStatusCode(%s) = %d, want %d", code, got, want)
		}
	}
}

func TestConstructors(t *testing.T) {
	cause := fmt.Errorf("boom")
	tests := []struct {
		name   string
		err    *AppError
		code   ErrorCode
		status int
	}{
		{"validation", Validation("item is required"), CodeValidation, http.StatusBadRequest},
		{"bad request", BadRequestWrap(cause, "Invalid mode"), CodeBadRequest, http.StatusBadRequest},
		{"schema", SchemaWrap(cause), CodeSchema, http.StatusUnprocessableEntity},
		{"no data", NoData("Please upload an Excel file to proceed."), CodeNoData, http.StatusConflict},
		{"too large", TooLarge("too large"), CodeTooLarge, http.StatusRequestEntityTooLarge},
		{"rate limit", RateLimit("slow down"), CodeRateLimit, http.StatusTooManyRequests},
		{"internal", InternalWrap(cause, "An error occurred"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code || tt.err.StatusCode != tt.status {
				t.Errorf("got %s/%d, want %s/%d", tt.err.Code, tt.err.StatusCode, tt.code, tt.status)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	w := httptest.NewRecorder()

	WriteError(w, logger, SchemaWrap(fmt.Errorf("missing Category")), "req-1")

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}

	var response struct {
		Success bool `json:"success"`
		Error   struct {
			Code      string `json:"code"`
			Details   string `json:"details"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if response.Success {
		t.Error("success should be false")
	}
	if response.Error.Code != string(CodeSchema) || response.Error.Details != "missing Category" || response.Error.RequestID != "req-1" {
		t.Errorf("unexpected error body: %+v", response.Error)
	}
}

func TestWriteError_PlainError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 4}))
	w := httptest.NewRecorder()

	WriteError(w, logger, fmt.Errorf("boom"), "")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
