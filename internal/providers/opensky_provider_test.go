package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skypulse/flightcore/internal/metrics"
)

func TestOpenSky_FetchLiveState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/states/all" {
			t.Errorf("Expected path /states/all, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("icao24"); got != "4b1805" {
			t.Errorf("Expected lower-cased icao24, got %s", got)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("OpenSky requests must be anonymous")
		}
		w.Write([]byte(`{"time": 1760860800, "states": [
			["4b1805", "AFL1234", "Russia", 1760860790, 1760860795, 30.25, 56.11, null, false, 231.5, 289.4, 0.0, null, 10700.0]
		]}`))
	}))
	defer server.Close()

	provider := NewOpenSkyProvider(server.URL, time.Second, 2*time.Second, metrics.NewNopRegistry())

	live, err := FetchLiveState(context.Background(), provider, "4B1805", time.Now())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if live == nil {
		t.Fatal("Expected telemetry")
	}
	if live.Altitude != 10700.0 {
		t.Errorf("Expected geometric altitude fallback, got %v", live.Altitude)
	}
}

func TestOpenSky_NoStates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"time": 1760860800, "states": null}`))
	}))
	defer server.Close()

	provider := NewOpenSkyProvider(server.URL, time.Second, 2*time.Second, metrics.NewNopRegistry())

	live, err := FetchLiveState(context.Background(), provider, "abcdef", time.Now())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if live != nil {
		t.Errorf("Expected nil telemetry, got %+v", live)
	}
}
