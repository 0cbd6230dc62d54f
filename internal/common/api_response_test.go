package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skypulse/flightcore/internal/constants"
	"skypulse/flightcore/internal/models/dtos"
)

func TestRespondSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondSuccess(rec, time.Now(), "ok", map[string]string{"id": "SU1234-2025-10-19"}, http.StatusCreated)

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", rec.Code)
	}
	var body dtos.APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if body.Status != string(constants.APIStatusOk) {
		t.Errorf("Expected status ok, got %s", body.Status)
	}
	if body.ResponseTime == "" {
		t.Error("Expected response time to be set")
	}
}

func TestRespondAppError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"rate limited", constants.NewAppError(constants.ErrCodeRateLimited, nil), http.StatusTooManyRequests},
		{"not found", constants.NewAppError(constants.ErrCodeNotFound, nil), http.StatusNotFound},
		{"server error", constants.NewServerError(500), http.StatusBadGateway},
		{"no connection", constants.NewAppError(constants.ErrCodeNoConnection, nil), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondAppError(rec, time.Now(), tt.err)

			if rec.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, rec.Code)
			}
			var body dtos.APIResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("Expected valid JSON, got %v", err)
			}
			if body.Status != string(constants.APIStatusError) {
				t.Errorf("Expected status error, got %s", body.Status)
			}
			if body.Message == "" {
				t.Error("Expected error message")
			}
		})
	}
}
