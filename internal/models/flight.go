package models

import (
	"fmt"
	"strings"
	"time"
)

// FlightDateLayout is the date part of a flight id.
const FlightDateLayout = "2006-01-02"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "scheduled"
	FlightStatusActive    FlightStatus = "active"
	FlightStatusLanded    FlightStatus = "landed"
	FlightStatusCancelled FlightStatus = "cancelled"
	FlightStatusIncident  FlightStatus = "incident"
	FlightStatusDiverted  FlightStatus = "diverted"
	FlightStatusUnknown   FlightStatus = "unknown"
)

var AllFlightStatuses = []FlightStatus{
	FlightStatusScheduled,
	FlightStatusActive,
	FlightStatusLanded,
	FlightStatusCancelled,
	FlightStatusIncident,
	FlightStatusDiverted,
	FlightStatusUnknown,
}

// ParseFlightStatus is case-insensitive and falls back to unknown.
func ParseFlightStatus(s string) FlightStatus {
	candidate := FlightStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range AllFlightStatuses {
		if st == candidate {
			return st
		}
	}
	return FlightStatusUnknown
}

type Airline struct {
	IATA string `json:"iata"`
	ICAO string `json:"icao"`
	Name string `json:"name"`
}

var PlaceholderAirline = Airline{IATA: "--", ICAO: "---", Name: "Unknown Airline"}

type Aircraft struct {
	Registration *string `json:"registration,omitempty"`
	ICAO24       *string `json:"icao24,omitempty"`
	Model        *string `json:"model,omitempty"`
}

// FlightEndpoint is one end (departure or arrival) of a flight.
type FlightEndpoint struct {
	Airport      Airport    `json:"airport"`
	Terminal     *string    `json:"terminal,omitempty"`
	Gate         *string    `json:"gate,omitempty"`
	Scheduled    *time.Time `json:"scheduled_time,omitempty"`
	Estimated    *time.Time `json:"estimated_time,omitempty"`
	Actual       *time.Time `json:"actual_time,omitempty"`
	DelayMinutes *int       `json:"delay,omitempty"`
}

// BestAvailableTime prefers actual over estimated over scheduled.
func (e FlightEndpoint) BestAvailableTime() *time.Time {
	switch {
	case e.Actual != nil:
		return e.Actual
	case e.Estimated != nil:
		return e.Estimated
	default:
		return e.Scheduled
	}
}

func (e FlightEndpoint) IsDelayed() bool {
	return e.DelayMinutes != nil && *e.DelayMinutes > 0
}

func (e FlightEndpoint) DelayDisplay() string {
	if !e.IsDelayed() {
		return ""
	}
	return fmt.Sprintf("+%d min", *e.DelayMinutes)
}

type Flight struct {
	ID           string         `json:"id"`
	FlightNumber string         `json:"flight_number"`
	Airline      Airline        `json:"airline"`
	Departure    FlightEndpoint `json:"departure"`
	Arrival      FlightEndpoint `json:"arrival"`
	Status       FlightStatus   `json:"status"`
	Aircraft     *Aircraft      `json:"aircraft,omitempty"`
	LiveData     *LiveTelemetry `json:"live_data,omitempty"`
}

// MakeFlightID builds the stable "{flightNumber}-{date}" identity.
func MakeFlightID(flightNumber string, date time.Time) string {
	return flightNumber + "-" + date.Format(FlightDateLayout)
}

// FlightNumberFromID returns everything before the first "-".
func FlightNumberFromID(id string) string {
	if i := strings.Index(id, "-"); i >= 0 {
		return id[:i]
	}
	return id
}

// MinutesUntilDeparture reports the whole minutes left before scheduled departure.
// The second value is false once the departure time has passed or is unknown.
func (f Flight) MinutesUntilDeparture(now time.Time) (int, bool) {
	if f.Departure.Scheduled == nil {
		return 0, false
	}
	left := f.Departure.Scheduled.Sub(now)
	if left <= 0 {
		return 0, false
	}
	return int(left.Minutes()), true
}

// Progress is the fraction of the flight completed, in [0, 1].
func (f Flight) Progress(now time.Time) float64 {
	if f.Status != FlightStatusActive {
		if f.Status == FlightStatusLanded {
			return 1
		}
		return 0
	}

	dep := f.Departure.Actual
	if dep == nil {
		dep = f.Departure.Scheduled
	}
	arr := f.Arrival.Estimated
	if arr == nil {
		arr = f.Arrival.Scheduled
	}
	if dep == nil || arr == nil {
		return 0.5
	}

	total := arr.Sub(*dep).Seconds()
	if total <= 0 {
		return 0
	}
	return clamp01(now.Sub(*dep).Seconds() / total)
}

func (f Flight) IsLive() bool {
	return f.Status == FlightStatusActive && f.LiveData != nil
}

func (f Flight) ICAO24() *string {
	if f.Aircraft == nil || f.Aircraft.ICAO24 == nil || *f.Aircraft.ICAO24 == "" {
		return nil
	}
	return f.Aircraft.ICAO24
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
