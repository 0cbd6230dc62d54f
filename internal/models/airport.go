package models

import "math"

// CoordinateEpsilon decides whether coordinates are real or a zero placeholder.
// An airport within this many degrees of 0/0 on both axes is treated as unresolved.
const CoordinateEpsilon = 0.001

type Airport struct {
	IATA      string  `json:"iata"`
	ICAO      string  `json:"icao"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

var PlaceholderAirport = Airport{
	IATA:     "XXX",
	ICAO:     "XXXX",
	Name:     "Unknown Airport",
	City:     "Unknown",
	Country:  "Unknown",
	Timezone: "UTC",
}

func (a Airport) HasCoordinates() bool {
	return math.Abs(a.Latitude) > CoordinateEpsilon || math.Abs(a.Longitude) > CoordinateEpsilon
}

// DisplayName is "City (IATA)", or just the code when the city is unknown.
func (a Airport) DisplayName() string {
	if a.City == "" {
		return a.IATA
	}
	return a.City + " (" + a.IATA + ")"
}
