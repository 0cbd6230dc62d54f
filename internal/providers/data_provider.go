package providers

import (
	"context"
	"fmt"

	"skypulse/flightcore/internal/constants"
	"skypulse/flightcore/internal/models"
	"skypulse/flightcore/internal/models/dtos"
)

// ScheduleProvider is the flight/airport registry (AviationStack).
type ScheduleProvider interface {
	SearchFlights(ctx context.Context, params models.FlightSearchParams) ([]dtos.ASFlight, error)
	SearchAirports(ctx context.Context, query string) ([]dtos.ASAirport, error)
}

// TelemetryProvider is the live state-vector source (OpenSky).
type TelemetryProvider interface {
	GetStates(ctx context.Context, icao24 *string) ([]dtos.StateVector, error)
}

// ProviderError is returned by every provider client. Code is already a
// taxonomy value; StatusCode keeps the HTTP or provider-embedded code.
type ProviderError struct {
	Code       constants.ErrorCode
	StatusCode int
	Message    string
	Details    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// AppError converts to the caller-facing taxonomy error.
func (e *ProviderError) AppError() *constants.AppError {
	if e.Code == constants.ErrCodeServerError {
		appErr := constants.NewServerError(e.StatusCode)
		appErr.Err = e
		return appErr
	}
	return constants.NewAppError(e.Code, e)
}
