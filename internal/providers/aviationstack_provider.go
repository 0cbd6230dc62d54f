package providers

import (
	"context"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"skypulse/flightcore/internal/config"
	"skypulse/flightcore/internal/constants"
	"skypulse/flightcore/internal/metrics"
	"skypulse/flightcore/internal/models"
	"skypulse/flightcore/internal/models/dtos"
)

// AviationStackProvider queries the AviationStack flight registry.
// The free plan has a small monthly quota, so every call goes through a
// client-side rate limiter.
type AviationStackProvider struct {
	BaseURL string
	APIKey  string

	http    httpClient
	limiter *rate.Limiter
}

var _ ScheduleProvider = (*AviationStackProvider)(nil)

func NewAviationStackProvider(cfg config.AviationStackConfig, requestTimeout, resourceTimeout time.Duration, m *metrics.MetricsRegistry) *AviationStackProvider {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = constants.DefaultAviationStackRPS
	}

	return &AviationStackProvider{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:  cfg.APIKey,
		http:    newHTTPClient("aviationstack", requestTimeout, resourceTimeout, m),
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// SearchFlights calls /flights with the non-nil params as filters.
func (p *AviationStackProvider) SearchFlights(ctx context.Context, params models.FlightSearchParams) ([]dtos.ASFlight, error) {
	query := url.Values{}
	setParam(query, "flight_iata", params.FlightNumber)
	setParam(query, "dep_iata", params.DepartureIATA)
	setParam(query, "arr_iata", params.ArrivalIATA)
	setParam(query, "airline_iata", params.AirlineIATA)
	if params.Status != nil {
		query.Set("flight_status", string(*params.Status))
	}
	if params.Date != nil {
		query.Set("flight_date", params.Date.Format(models.FlightDateLayout))
	}

	var resp dtos.ASFlightResponse
	if err := p.get(ctx, "/flights", query, &resp); err != nil {
		return nil, err
	}
	if err := embeddedError(resp.Error); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// SearchAirports calls /airports?search=.
func (p *AviationStackProvider) SearchAirports(ctx context.Context, search string) ([]dtos.ASAirport, error) {
	if strings.TrimSpace(search) == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidRequest,
			Message: "Airport search query cannot be empty",
		}
	}

	query := url.Values{}
	query.Set("search", search)

	var resp dtos.ASAirportResponse
	if err := p.get(ctx, "/airports", query, &resp); err != nil {
		return nil, err
	}
	if err := embeddedError(resp.Error); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (p *AviationStackProvider) get(ctx context.Context, endpoint string, query url.Values, result interface{}) error {
	if p.APIKey == "" {
		return &ProviderError{
			Code:    constants.ErrCodeUnauthorized,
			Message: "AVIATIONSTACK_API_KEY is not set",
		}
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return &ProviderError{
			Code:    constants.ClassifyTransportError(err),
			Message: "Rate limiter wait aborted",
			Err:     err,
		}
	}

	query.Set("access_key", p.APIKey)
	_, err := p.http.doGET(ctx, endpoint, p.BaseURL+endpoint+"?"+query.Encode(), result)
	return err
}

// embeddedError maps AviationStack's 200-with-error convention.
func embeddedError(apiErr *dtos.ASAPIError) error {
	if apiErr == nil {
		return nil
	}

	code := -1
	if apiErr.Code != nil {
		code = *apiErr.Code
	}

	taxonomy := constants.CodeFromAviationStack(code)
	return &ProviderError{
		Code:       taxonomy,
		StatusCode: code,
		Message:    constants.GetErrorMessage(taxonomy),
		Details:    strings.TrimSpace(apiErr.Type + " " + apiErr.Info),
	}
}

func setParam(query url.Values, key string, value *string) {
	if value != nil && *value != "" {
		query.Set(key, *value)
	}
}
