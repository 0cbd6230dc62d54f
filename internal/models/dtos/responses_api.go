package dtos

import (
	"time"

	"skypulse/flightcore/internal/models"
)

// APIResponse is the envelope every HTTP endpoint answers with.
type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type HealthCheckResponse struct {
	Status    string                   `json:"status"`
	Uptime    string                   `json:"uptime"`
	Reachable bool                     `json:"reachable"`
	Cache     *CacheStatus             `json:"cache,omitempty"`
	Services  map[string]ServiceStatus `json:"services"`
}

type CacheStatus struct {
	Flights  int64 `json:"flights"`
	Airports int64 `json:"airports"`
}

// FlightView adds the derived values UI consumers need but which are never stored.
type FlightView struct {
	models.Flight
	Route                 string    `json:"route"`
	Progress              float64   `json:"progress"`
	MinutesUntilDeparture *int      `json:"minutes_until_departure,omitempty"`
	IsLive                bool      `json:"is_live"`
	Live                  *LiveView `json:"live,omitempty"`
	IsFavorite            *bool     `json:"is_favorite,omitempty"`
}

func NewFlightView(f models.Flight, now time.Time) FlightView {
	v := FlightView{
		Flight:   f,
		Route:    f.Departure.Airport.DisplayName() + " - " + f.Arrival.Airport.DisplayName(),
		Progress: f.Progress(now),
		IsLive:   f.IsLive(),
	}
	if mins, ok := f.MinutesUntilDeparture(now); ok {
		v.MinutesUntilDeparture = &mins
	}
	if f.LiveData != nil {
		live := NewLiveView(*f.LiveData)
		v.Live = &live
	}
	return v
}

// LiveView is a position report with the aviation units displays use.
type LiveView struct {
	models.LiveTelemetry
	AltitudeFeet int `json:"altitude_ft"`
	SpeedKnots   int `json:"speed_kt"`
}

func NewLiveView(t models.LiveTelemetry) LiveView {
	return LiveView{LiveTelemetry: t, AltitudeFeet: t.AltitudeFeet(), SpeedKnots: t.SpeedKnots()}
}

func NewFlightViews(flights []models.Flight, now time.Time) []FlightView {
	views := make([]FlightView, 0, len(flights))
	for _, f := range flights {
		views = append(views, NewFlightView(f, now))
	}
	return views
}

type FavoriteRequest struct {
	Flight               models.Flight `json:"flight"`
	NotificationsEnabled bool          `json:"notifications_enabled"`
}

type MonitorRequest struct {
	Status models.FlightStatus `json:"status"`
}

type MonitoredFlight struct {
	FlightID string              `json:"flight_id"`
	Status   models.FlightStatus `json:"status"`
}

type ToggleFavoriteRequest struct {
	Flight      models.Flight `json:"flight"`
	IsFavorited bool          `json:"is_favorited"`
}

type ToggleFavoriteResponse struct {
	FlightID   string `json:"flight_id"`
	IsFavorite bool   `json:"is_favorite"`
}

type SearchResponse struct {
	Query   models.SearchQuery `json:"query"`
	Flights []FlightView       `json:"flights"`
}
