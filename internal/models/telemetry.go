package models

import "time"

const (
	metersToFeet = 3.28084
	mpsToKnots   = 1.94384
)

// LiveTelemetry is a single position report. Units are SI: meters, m/s, degrees.
type LiveTelemetry struct {
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Altitude     float64   `json:"altitude"`
	Speed        float64   `json:"speed"`
	Heading      float64   `json:"heading"`
	VerticalRate float64   `json:"vertical_rate"`
	OnGround     bool      `json:"is_on_ground"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (t LiveTelemetry) AltitudeFeet() int {
	return int(t.Altitude * metersToFeet)
}

func (t LiveTelemetry) SpeedKnots() int {
	return int(t.Speed * mpsToKnots)
}

// Equal compares every field, timestamps by instant.
func (t *LiveTelemetry) Equal(o *LiveTelemetry) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.Latitude == o.Latitude &&
		t.Longitude == o.Longitude &&
		t.Altitude == o.Altitude &&
		t.Speed == o.Speed &&
		t.Heading == o.Heading &&
		t.VerticalRate == o.VerticalRate &&
		t.OnGround == o.OnGround &&
		t.UpdatedAt.Equal(o.UpdatedAt)
}
