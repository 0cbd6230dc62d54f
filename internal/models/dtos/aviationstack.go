package dtos

import (
	"strconv"
	"strings"
	"time"

	"skypulse/flightcore/internal/models"
)

// ---- AviationStack /flights and /airports ----

type ASPagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
	Total  int `json:"total"`
}

// ASAPIError is embedded in HTTP 200 responses when a call fails.
type ASAPIError struct {
	Code *int   `json:"code"`
	Type string `json:"type"`
	Info string `json:"info"`
}

type ASFlightResponse struct {
	Pagination *ASPagination `json:"pagination"`
	Data       []ASFlight    `json:"data"`
	Error      *ASAPIError   `json:"error"`
}

type ASAirportResponse struct {
	Pagination *ASPagination `json:"pagination"`
	Data       []ASAirport   `json:"data"`
	Error      *ASAPIError   `json:"error"`
}

type ASFlight struct {
	FlightDate   *string     `json:"flight_date"`
	FlightStatus *string     `json:"flight_status"`
	Departure    *ASEndpoint `json:"departure"`
	Arrival      *ASEndpoint `json:"arrival"`
	Airline      *ASAirline  `json:"airline"`
	Flight       *ASFlightID `json:"flight"`
	Aircraft     *ASAircraft `json:"aircraft"`
	Live         *ASLive     `json:"live"`
}

type ASEndpoint struct {
	Airport   *string `json:"airport"`
	Timezone  *string `json:"timezone"`
	IATA      *string `json:"iata"`
	ICAO      *string `json:"icao"`
	Terminal  *string `json:"terminal"`
	Gate      *string `json:"gate"`
	Delay     *int    `json:"delay"`
	Scheduled *string `json:"scheduled"`
	Estimated *string `json:"estimated"`
	Actual    *string `json:"actual"`
}

type ASAirline struct {
	Name *string `json:"name"`
	IATA *string `json:"iata"`
	ICAO *string `json:"icao"`
}

type ASFlightID struct {
	Number *string `json:"number"`
	IATA   *string `json:"iata"`
	ICAO   *string `json:"icao"`
}

type ASAircraft struct {
	Registration *string `json:"registration"`
	IATA         *string `json:"iata"`
	ICAO         *string `json:"icao"`
	ICAO24       *string `json:"icao24"`
}

type ASLive struct {
	Updated         *string  `json:"updated"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	Altitude        *float64 `json:"altitude"`
	Direction       *float64 `json:"direction"`
	SpeedHorizontal *float64 `json:"speed_horizontal"`
	SpeedVertical   *float64 `json:"speed_vertical"`
	IsGround        *bool    `json:"is_ground"`
}

type ASAirport struct {
	AirportName  *string `json:"airport_name"`
	IATACode     *string `json:"iata_code"`
	ICAOCode     *string `json:"icao_code"`
	Latitude     *string `json:"latitude"`
	Longitude    *string `json:"longitude"`
	Timezone     *string `json:"timezone"`
	GMT          *string `json:"gmt"`
	CountryName  *string `json:"country_name"`
	CountryISO2  *string `json:"country_iso2"`
	CityIATACode *string `json:"city_iata_code"`
}

// ToDomain maps a provider record. Records without a flight IATA code have no
// stable identity and are dropped (ok == false). now supplies the id date when
// the provider omits flight_date.
func (f ASFlight) ToDomain(now time.Time) (models.Flight, bool) {
	if f.Flight == nil || f.Flight.IATA == nil || *f.Flight.IATA == "" {
		return models.Flight{}, false
	}
	flightIATA := *f.Flight.IATA

	date := now.UTC().Format(models.FlightDateLayout)
	if f.FlightDate != nil && *f.FlightDate != "" {
		date = *f.FlightDate
	}

	flight := models.Flight{
		ID:           flightIATA + "-" + date,
		FlightNumber: flightIATA,
		Departure:    f.Departure.toDomain(),
		Arrival:      f.Arrival.toDomain(),
		Status:       models.ParseFlightStatus(deref(f.FlightStatus)),
	}

	if f.Airline != nil {
		flight.Airline = models.Airline{
			IATA: deref(f.Airline.IATA),
			ICAO: deref(f.Airline.ICAO),
			Name: deref(f.Airline.Name),
		}
	}

	if f.Aircraft != nil {
		flight.Aircraft = &models.Aircraft{
			Registration: f.Aircraft.Registration,
			ICAO24:       f.Aircraft.ICAO24,
			Model:        f.Aircraft.IATA,
		}
	}

	if f.Live != nil {
		flight.LiveData = f.Live.ToDomain(now)
	}

	return flight, true
}

// Endpoint airports carry no coordinates; the resolver fills them in later.
func (e *ASEndpoint) toDomain() models.FlightEndpoint {
	if e == nil {
		return models.FlightEndpoint{Airport: models.Airport{Timezone: "UTC"}}
	}

	timezone := deref(e.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}

	return models.FlightEndpoint{
		Airport: models.Airport{
			IATA:     deref(e.IATA),
			ICAO:     deref(e.ICAO),
			Name:     deref(e.Airport),
			Timezone: timezone,
		},
		Terminal:     e.Terminal,
		Gate:         e.Gate,
		Scheduled:    ParseProviderTime(e.Scheduled),
		Estimated:    ParseProviderTime(e.Estimated),
		Actual:       ParseProviderTime(e.Actual),
		DelayMinutes: e.Delay,
	}
}

// ToDomain requires a position; the remaining fields default to zero.
func (l *ASLive) ToDomain(now time.Time) *models.LiveTelemetry {
	if l == nil || l.Latitude == nil || l.Longitude == nil {
		return nil
	}

	updated := now
	if ts := ParseProviderTime(l.Updated); ts != nil {
		updated = *ts
	}

	return &models.LiveTelemetry{
		Latitude:     *l.Latitude,
		Longitude:    *l.Longitude,
		Altitude:     derefFloat(l.Altitude),
		Speed:        derefFloat(l.SpeedHorizontal),
		Heading:      derefFloat(l.Direction),
		VerticalRate: derefFloat(l.SpeedVertical),
		OnGround:     l.IsGround != nil && *l.IsGround,
		UpdatedAt:    updated,
	}
}

// ToDomain drops airports without an IATA code. Coordinates arrive as strings.
func (a ASAirport) ToDomain() (models.Airport, bool) {
	iata := strings.TrimSpace(deref(a.IATACode))
	if iata == "" {
		return models.Airport{}, false
	}

	timezone := deref(a.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}

	return models.Airport{
		IATA:      iata,
		ICAO:      deref(a.ICAOCode),
		Name:      deref(a.AirportName),
		City:      deref(a.CityIATACode),
		Country:   deref(a.CountryName),
		Latitude:  parseCoordinate(a.Latitude),
		Longitude: parseCoordinate(a.Longitude),
		Timezone:  timezone,
	}, true
}

// ParseProviderTime accepts RFC 3339 with or without fractional seconds.
func ParseProviderTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	return nil
}

func parseCoordinate(s *string) float64 {
	if s == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		return 0
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
