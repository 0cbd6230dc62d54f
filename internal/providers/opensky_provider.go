package providers

import (
	"context"
	"net/url"
	"strings"
	"time"

	"skypulse/flightcore/internal/metrics"
	"skypulse/flightcore/internal/models"
	"skypulse/flightcore/internal/models/dtos"
)

// OpenSkyProvider reads anonymous state vectors from the OpenSky Network.
type OpenSkyProvider struct {
	BaseURL string

	http httpClient
}

var _ TelemetryProvider = (*OpenSkyProvider)(nil)

func NewOpenSkyProvider(baseURL string, requestTimeout, resourceTimeout time.Duration, m *metrics.MetricsRegistry) *OpenSkyProvider {
	return &OpenSkyProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient("opensky", requestTimeout, resourceTimeout, m),
	}
}

// GetStates returns all current state vectors, or only the one for icao24.
func (p *OpenSkyProvider) GetStates(ctx context.Context, icao24 *string) ([]dtos.StateVector, error) {
	endpoint := p.BaseURL + "/states/all"
	if icao24 != nil && *icao24 != "" {
		endpoint += "?" + url.Values{"icao24": {strings.ToLower(*icao24)}}.Encode()
	}

	var resp dtos.OSStatesResponse
	if _, err := p.http.doGET(ctx, "/states/all", endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.ParseStateVectors(), nil
}

// FetchLiveState returns the first usable position for icao24, or nil.
func FetchLiveState(ctx context.Context, p TelemetryProvider, icao24 string, now time.Time) (*models.LiveTelemetry, error) {
	states, err := p.GetStates(ctx, &icao24)
	if err != nil {
		return nil, err
	}
	for _, s := range states {
		if live := s.ToDomain(now); live != nil {
			return live, nil
		}
	}
	return nil, nil
}
