package models

import (
	"strings"
	"time"
	"unicode"
)

type SearchType string

const (
	SearchTypeFlightNumber SearchType = "flight_number"
	SearchTypeRoute        SearchType = "route"
	SearchTypeAirport      SearchType = "airport"
)

type SearchQuery struct {
	Text      string     `json:"text" db:"query"`
	Type      SearchType `json:"type" db:"search_type"`
	Timestamp time.Time  `json:"timestamp" db:"created_at"`
}

// DetectSearchQuery classifies free text as a route, flight number or airport.
func DetectSearchQuery(text string, now time.Time) SearchQuery {
	trimmed := strings.ToUpper(strings.TrimSpace(text))

	// "SVO-JFK" or "SVO JFK"
	if strings.Contains(trimmed, "-") || (len([]rune(trimmed)) >= 7 && len(strings.Fields(trimmed)) == 2) {
		return SearchQuery{Text: trimmed, Type: SearchTypeRoute, Timestamp: now}
	}

	// "SU1234", "AA 123"
	compact := strings.ReplaceAll(trimmed, " ", "")
	if looksLikeFlightNumber(compact) {
		return SearchQuery{Text: compact, Type: SearchTypeFlightNumber, Timestamp: now}
	}

	return SearchQuery{Text: trimmed, Type: SearchTypeAirport, Timestamp: now}
}

// looksLikeFlightNumber accepts two letters followed by at least one digit, e.g. SU1234.
func looksLikeFlightNumber(s string) bool {
	runes := []rune(s)
	if len(runes) < 3 {
		return false
	}
	for _, r := range runes[:2] {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	for _, r := range runes[2:] {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// FlightSearchParams are independently combinable filters. Nil means "any".
type FlightSearchParams struct {
	FlightNumber  *string       `json:"flight_number,omitempty"`
	DepartureIATA *string       `json:"dep_iata,omitempty"`
	ArrivalIATA   *string       `json:"arr_iata,omitempty"`
	AirlineIATA   *string       `json:"airline_iata,omitempty"`
	Date          *time.Time    `json:"date,omitempty"`
	Status        *FlightStatus `json:"status,omitempty"`
}

func ByFlightNumber(number string) FlightSearchParams {
	return FlightSearchParams{FlightNumber: &number}
}

func ByRoute(from, to string) FlightSearchParams {
	return FlightSearchParams{DepartureIATA: &from, ArrivalIATA: &to}
}

func DeparturesFrom(iata string) FlightSearchParams {
	return FlightSearchParams{DepartureIATA: &iata}
}

func ArrivalsTo(iata string) FlightSearchParams {
	return FlightSearchParams{ArrivalIATA: &iata}
}

// Dashboard is the default "what is flying now" query.
func Dashboard() FlightSearchParams {
	status := FlightStatusActive
	return FlightSearchParams{Status: &status}
}

// Matches applies the params to an already materialised flight.
// Used for offline data, where no query engine is available.
func (p FlightSearchParams) Matches(f Flight) bool {
	if p.FlightNumber != nil && !strings.EqualFold(*p.FlightNumber, f.FlightNumber) {
		return false
	}
	if p.DepartureIATA != nil && !strings.EqualFold(*p.DepartureIATA, f.Departure.Airport.IATA) {
		return false
	}
	if p.ArrivalIATA != nil && !strings.EqualFold(*p.ArrivalIATA, f.Arrival.Airport.IATA) {
		return false
	}
	if p.AirlineIATA != nil && !strings.EqualFold(*p.AirlineIATA, f.Airline.IATA) {
		return false
	}
	if p.Status != nil && *p.Status != f.Status {
		return false
	}
	if p.Date != nil && !strings.HasSuffix(f.ID, FlightIDDateSuffix(*p.Date)) {
		return false
	}
	return true
}

// FlightIDDateSuffix is how a flight id ends for flights on date. The id date
// is the provider's flight date, which can differ from the UTC day of the
// scheduled departure.
func FlightIDDateSuffix(date time.Time) string {
	return "-" + date.UTC().Format(FlightDateLayout)
}

func (p FlightSearchParams) IsEmpty() bool {
	return p.FlightNumber == nil && p.DepartureIATA == nil && p.ArrivalIATA == nil &&
		p.AirlineIATA == nil && p.Date == nil && p.Status == nil
}
