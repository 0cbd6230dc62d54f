package models

import (
	"time"

	"github.com/google/uuid"
)

// StatusChange is emitted once per observed transition of a monitored flight.
type StatusChange struct {
	ID         uuid.UUID    `json:"id"`
	FlightID   string       `json:"flight_id"`
	OldStatus  FlightStatus `json:"old_status"`
	NewStatus  FlightStatus `json:"new_status"`
	DetectedAt time.Time    `json:"detected_at"`
}

func NewStatusChange(flightID string, oldStatus, newStatus FlightStatus, at time.Time) StatusChange {
	return StatusChange{
		ID:         uuid.New(),
		FlightID:   flightID,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		DetectedAt: at,
	}
}

type Favorite struct {
	FlightID             string    `json:"flight_id" db:"flight_id"`
	AddedAt              time.Time `json:"added_at" db:"added_at"`
	NotificationsEnabled bool      `json:"notifications_enabled" db:"notifications_enabled"`
}
