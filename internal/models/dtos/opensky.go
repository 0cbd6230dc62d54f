package dtos

import (
	"strings"
	"time"

	"skypulse/flightcore/internal/models"
)

// OpenSky state vector indices, see /states/all documentation.
const (
	osIdxICAO24        = 0
	osIdxCallsign      = 1
	osIdxOriginCountry = 2
	osIdxLastContact   = 4
	osIdxLongitude     = 5
	osIdxLatitude      = 6
	osIdxBaroAltitude  = 7
	osIdxOnGround      = 8
	osIdxVelocity      = 9
	osIdxTrueTrack     = 10
	osIdxVerticalRate  = 11
	osIdxGeoAltitude   = 13

	osMinStateFields = 14
)

// OSStatesResponse is the raw /states/all payload. Each state is a
// heterogeneous array, so it is decoded loosely and parsed by index.
type OSStatesResponse struct {
	Time   int64           `json:"time"`
	States [][]interface{} `json:"states"`
}

type StateVector struct {
	ICAO24        string
	Callsign      *string
	OriginCountry string
	LastContact   *int64
	Longitude     *float64
	Latitude      *float64
	BaroAltitude  *float64
	OnGround      bool
	Velocity      *float64
	TrueTrack     *float64
	VerticalRate  *float64
	GeoAltitude   *float64
}

// ParseStateVectors skips rows that are too short or carry no transponder address.
func (r OSStatesResponse) ParseStateVectors() []StateVector {
	vectors := make([]StateVector, 0, len(r.States))
	for _, s := range r.States {
		if v, ok := parseStateVector(s); ok {
			vectors = append(vectors, v)
		}
	}
	return vectors
}

func parseStateVector(s []interface{}) (StateVector, bool) {
	if len(s) < osMinStateFields {
		return StateVector{}, false
	}

	icao24, _ := s[osIdxICAO24].(string)
	if icao24 == "" {
		return StateVector{}, false
	}

	v := StateVector{
		ICAO24:       icao24,
		Longitude:    floatAt(s, osIdxLongitude),
		Latitude:     floatAt(s, osIdxLatitude),
		BaroAltitude: floatAt(s, osIdxBaroAltitude),
		Velocity:     floatAt(s, osIdxVelocity),
		TrueTrack:    floatAt(s, osIdxTrueTrack),
		VerticalRate: floatAt(s, osIdxVerticalRate),
		GeoAltitude:  floatAt(s, osIdxGeoAltitude),
	}

	if cs, ok := s[osIdxCallsign].(string); ok {
		trimmed := strings.TrimSpace(cs)
		v.Callsign = &trimmed
	}
	v.OriginCountry, _ = s[osIdxOriginCountry].(string)
	v.OnGround, _ = s[osIdxOnGround].(bool)
	if lc := floatAt(s, osIdxLastContact); lc != nil {
		ts := int64(*lc)
		v.LastContact = &ts
	}

	return v, true
}

func floatAt(s []interface{}, idx int) *float64 {
	if f, ok := s[idx].(float64); ok {
		return &f
	}
	return nil
}

// ToDomain needs a position. Altitude prefers barometric, then geometric, then 0.
func (v StateVector) ToDomain(now time.Time) *models.LiveTelemetry {
	if v.Latitude == nil || v.Longitude == nil {
		return nil
	}

	altitude := 0.0
	switch {
	case v.BaroAltitude != nil:
		altitude = *v.BaroAltitude
	case v.GeoAltitude != nil:
		altitude = *v.GeoAltitude
	}

	updated := now
	if v.LastContact != nil {
		updated = time.Unix(*v.LastContact, 0).UTC()
	}

	return &models.LiveTelemetry{
		Latitude:     *v.Latitude,
		Longitude:    *v.Longitude,
		Altitude:     altitude,
		Speed:        derefFloat(v.Velocity),
		Heading:      derefFloat(v.TrueTrack),
		VerticalRate: derefFloat(v.VerticalRate),
		OnGround:     v.OnGround,
		UpdatedAt:    updated,
	}
}
