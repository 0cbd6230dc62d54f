package dtos

import (
	"encoding/json"
	"testing"
	"time"

	"skypulse/flightcore/internal/models"
)

const sampleFlightJSON = `{
	"flight_date": "2026-10-19",
	"flight_status": "active",
	"departure": {"airport": "Sheremetyevo", "timezone": "Europe/Moscow", "iata": "SVO", "icao": "UUEE",
		"terminal": "C", "gate": "12", "delay": 15,
		"scheduled": "2026-10-19T08:00:00+00:00", "estimated": "2026-10-19T08:15:00+00:00", "actual": null},
	"arrival": {"airport": "John F Kennedy", "timezone": null, "iata": "JFK", "icao": "KJFK",
		"scheduled": "2026-10-19T18:30:00.000+00:00"},
	"airline": {"name": "Aeroflot", "iata": "SU", "icao": "AFL"},
	"flight": {"number": "1234", "iata": "SU1234", "icao": "AFL1234"},
	"aircraft": {"registration": "RA-73181", "iata": "A333", "icao": "A333", "icao24": "4b1805"},
	"live": {"updated": "2026-10-19T09:00:00+00:00", "latitude": 56.1, "longitude": 30.2, "altitude": 10500,
		"direction": 290, "speed_horizontal": 850, "speed_vertical": 0, "is_ground": false}
}`

func TestASFlight_ToDomain(t *testing.T) {
	var dto ASFlight
	if err := json.Unmarshal([]byte(sampleFlightJSON), &dto); err != nil {
		t.Fatalf("Failed to decode sample: %v", err)
	}

	flight, ok := dto.ToDomain(time.Now())
	if !ok {
		t.Fatal("Expected flight to be mapped")
	}

	if flight.ID != "SU1234-2026-10-19" {
		t.Errorf("Expected id SU1234-2026-10-19, got %s", flight.ID)
	}
	if flight.Status != models.FlightStatusActive {
		t.Errorf("Expected active status, got %s", flight.Status)
	}
	if flight.Airline.Name != "Aeroflot" || flight.Airline.ICAO != "AFL" {
		t.Errorf("Unexpected airline %+v", flight.Airline)
	}
	if flight.Departure.Airport.IATA != "SVO" || flight.Departure.Airport.Timezone != "Europe/Moscow" {
		t.Errorf("Unexpected departure airport %+v", flight.Departure.Airport)
	}
	if flight.Arrival.Airport.Timezone != "UTC" {
		t.Errorf("Expected UTC timezone fallback, got %s", flight.Arrival.Airport.Timezone)
	}
	if flight.Departure.Airport.HasCoordinates() {
		t.Error("Provider endpoints must not carry coordinates")
	}
	if flight.Departure.DelayMinutes == nil || *flight.Departure.DelayMinutes != 15 {
		t.Error("Expected departure delay 15")
	}
	if flight.Departure.Actual != nil {
		t.Error("Expected nil actual departure")
	}
	if flight.Arrival.Scheduled == nil || flight.Arrival.Scheduled.Hour() != 18 {
		t.Errorf("Expected fractional-second arrival time to parse, got %v", flight.Arrival.Scheduled)
	}
	if flight.Aircraft == nil || flight.Aircraft.Model == nil || *flight.Aircraft.Model != "A333" {
		t.Error("Expected aircraft model from aircraft.iata")
	}
	if flight.LiveData == nil || flight.LiveData.Latitude != 56.1 || flight.LiveData.Heading != 290 {
		t.Errorf("Unexpected live data %+v", flight.LiveData)
	}
}

func TestASFlight_ToDomain_MissingIdentity(t *testing.T) {
	var dto ASFlight
	if err := json.Unmarshal([]byte(`{"flight_status": "scheduled", "flight": {"number": "12"}}`), &dto); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if _, ok := dto.ToDomain(time.Now()); ok {
		t.Error("Expected record without flight.iata to be dropped")
	}
}

func TestASFlight_ToDomain_DefaultsDateToToday(t *testing.T) {
	number := "SU100"
	dto := ASFlight{Flight: &ASFlightID{IATA: &number}}
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	flight, ok := dto.ToDomain(now)
	if !ok {
		t.Fatal("Expected flight to be mapped")
	}
	if flight.ID != "SU100-2026-10-19" {
		t.Errorf("Expected today's date in id, got %s", flight.ID)
	}
	if flight.Status != models.FlightStatusUnknown {
		t.Errorf("Expected unknown status, got %s", flight.Status)
	}
}

func TestASAirport_ToDomain(t *testing.T) {
	var dto ASAirport
	raw := `{"airport_name": "Sheremetyevo", "iata_code": "SVO", "icao_code": "UUEE",
		"latitude": "55.972642", "longitude": "37.414589", "timezone": "Europe/Moscow",
		"country_name": "Russia", "city_iata_code": "MOW"}`
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}

	airport, ok := dto.ToDomain()
	if !ok {
		t.Fatal("Expected airport to be mapped")
	}
	if airport.Latitude != 55.972642 || airport.Longitude != 37.414589 {
		t.Errorf("Unexpected coordinates %v,%v", airport.Latitude, airport.Longitude)
	}
	if airport.City != "MOW" {
		t.Errorf("Expected city MOW, got %s", airport.City)
	}

	if _, ok := (ASAirport{}).ToDomain(); ok {
		t.Error("Expected airport without IATA to be dropped")
	}
}
