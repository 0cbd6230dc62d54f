package repositories

import (
	"time"

	"skypulse/flightcore/internal/models"
	"skypulse/flightcore/internal/models/gorm"
)

func flightToRow(f models.Flight, cachedAt time.Time) gorm.Flight {
	row := gorm.Flight{
		ID:           f.ID,
		FlightNumber: f.FlightNumber,
		Status:       string(f.Status),
		AirlineIATA:  f.Airline.IATA,
		AirlineICAO:  f.Airline.ICAO,
		AirlineName:  f.Airline.Name,
		Departure:    endpointToRow(f.Departure),
		Arrival:      endpointToRow(f.Arrival),
		CachedAt:     cachedAt,
	}

	if f.Aircraft != nil {
		row.HasAircraft = true
		row.AircraftRegistration = f.Aircraft.Registration
		row.AircraftICAO24 = f.Aircraft.ICAO24
		row.AircraftModel = f.Aircraft.Model
	}

	if f.LiveData != nil {
		t := *f.LiveData
		updated := t.UpdatedAt
		row.Live = gorm.LiveTelemetry{
			Latitude:     &t.Latitude,
			Longitude:    &t.Longitude,
			Altitude:     &t.Altitude,
			Speed:        &t.Speed,
			Heading:      &t.Heading,
			VerticalRate: &t.VerticalRate,
			OnGround:     &t.OnGround,
			UpdatedAt:    &updated,
		}
	}

	return row
}

func rowToFlight(row gorm.Flight) models.Flight {
	f := models.Flight{
		ID:           row.ID,
		FlightNumber: row.FlightNumber,
		Airline: models.Airline{
			IATA: row.AirlineIATA,
			ICAO: row.AirlineICAO,
			Name: row.AirlineName,
		},
		Departure: rowToEndpoint(row.Departure),
		Arrival:   rowToEndpoint(row.Arrival),
		Status:    models.ParseFlightStatus(row.Status),
	}

	if row.HasAircraft {
		f.Aircraft = &models.Aircraft{
			Registration: row.AircraftRegistration,
			ICAO24:       row.AircraftICAO24,
			Model:        row.AircraftModel,
		}
	}

	if l := row.Live; l.Latitude != nil && l.Longitude != nil {
		t := &models.LiveTelemetry{
			Latitude:  *l.Latitude,
			Longitude: *l.Longitude,
		}
		if l.Altitude != nil {
			t.Altitude = *l.Altitude
		}
		if l.Speed != nil {
			t.Speed = *l.Speed
		}
		if l.Heading != nil {
			t.Heading = *l.Heading
		}
		if l.VerticalRate != nil {
			t.VerticalRate = *l.VerticalRate
		}
		if l.OnGround != nil {
			t.OnGround = *l.OnGround
		}
		if l.UpdatedAt != nil {
			t.UpdatedAt = l.UpdatedAt.UTC()
		}
		f.LiveData = t
	}

	return f
}

func endpointToRow(e models.FlightEndpoint) gorm.FlightEndpoint {
	return gorm.FlightEndpoint{
		IATA:      e.Airport.IATA,
		ICAO:      e.Airport.ICAO,
		Name:      e.Airport.Name,
		City:      e.Airport.City,
		Country:   e.Airport.Country,
		Latitude:  e.Airport.Latitude,
		Longitude: e.Airport.Longitude,
		Timezone:  e.Airport.Timezone,
		Terminal:  e.Terminal,
		Gate:      e.Gate,
		Scheduled: utcPtr(e.Scheduled),
		Estimated: utcPtr(e.Estimated),
		Actual:    utcPtr(e.Actual),
		Delay:     e.DelayMinutes,
	}
}

func rowToEndpoint(row gorm.FlightEndpoint) models.FlightEndpoint {
	return models.FlightEndpoint{
		Airport: models.Airport{
			IATA:      row.IATA,
			ICAO:      row.ICAO,
			Name:      row.Name,
			City:      row.City,
			Country:   row.Country,
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
			Timezone:  row.Timezone,
		},
		Terminal:     row.Terminal,
		Gate:         row.Gate,
		Scheduled:    utcPtr(row.Scheduled),
		Estimated:    utcPtr(row.Estimated),
		Actual:       utcPtr(row.Actual),
		DelayMinutes: row.Delay,
	}
}

func airportToRow(a models.Airport, cachedAt time.Time) gorm.Airport {
	return gorm.Airport{
		IATA:      a.IATA,
		ICAO:      a.ICAO,
		Name:      a.Name,
		City:      a.City,
		Country:   a.Country,
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
		Timezone:  a.Timezone,
		CachedAt:  cachedAt,
	}
}

func rowToAirport(row gorm.Airport) models.Airport {
	return models.Airport{
		IATA:      row.IATA,
		ICAO:      row.ICAO,
		Name:      row.Name,
		City:      row.City,
		Country:   row.Country,
		Latitude:  row.Latitude,
		Longitude: row.Longitude,
		Timezone:  row.Timezone,
	}
}

// utcPtr copies t in UTC so stored and returned times never alias the caller's value.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
