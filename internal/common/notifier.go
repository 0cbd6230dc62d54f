package common

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"skypulse/flightcore/internal/logging"
	"skypulse/flightcore/internal/models"
)

// NotificationDispatcher delivers a status change to the user. Delivery is
// fire-and-forget: implementations log their own failures.
type NotificationDispatcher interface {
	Notify(ctx context.Context, flightID string, oldStatus, newStatus models.FlightStatus)
}

// NotificationTitle renders the short headline for a status change.
func NotificationTitle(flightID string, newStatus models.FlightStatus) string {
	return fmt.Sprintf("%s: %s", models.FlightNumberFromID(flightID), strings.ToUpper(string(newStatus)))
}

// LogNotifier writes status changes to the application log.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, flightID string, oldStatus, newStatus models.FlightStatus) {
	logging.Info("Flight status changed",
		"title", NotificationTitle(flightID, newStatus),
		"flight_id", flightID,
		"old_status", oldStatus,
		"new_status", newStatus)
}

// statusChangeMessage is the payload stored under the "data" field of each stream entry.
type statusChangeMessage struct {
	FlightID  string              `json:"flight_id"`
	Title     string              `json:"title"`
	OldStatus models.FlightStatus `json:"old_status"`
	NewStatus models.FlightStatus `json:"new_status"`
	SentAt    time.Time           `json:"sent_at"`
}

// RedisStreamNotifier appends status changes to a Redis stream so that
// push delivery can run in a separate process.
type RedisStreamNotifier struct {
	client *redis.Client
	stream string
	maxLen int64
	now    func() time.Time
}

func NewRedisStreamNotifier(client *redis.Client, stream string) *RedisStreamNotifier {
	return &RedisStreamNotifier{
		client: client,
		stream: stream,
		maxLen: 10000,
		now:    time.Now,
	}
}

func (n *RedisStreamNotifier) Notify(ctx context.Context, flightID string, oldStatus, newStatus models.FlightStatus) {
	if err := n.publish(ctx, flightID, oldStatus, newStatus); err != nil {
		logging.Error("Failed to publish status change",
			"flight_id", flightID,
			"stream", n.stream,
			"error", err)
	}
}

func (n *RedisStreamNotifier) publish(ctx context.Context, flightID string, oldStatus, newStatus models.FlightStatus) error {
	data, err := json.Marshal(statusChangeMessage{
		FlightID:  flightID,
		Title:     NotificationTitle(flightID, newStatus),
		OldStatus: oldStatus,
		NewStatus: newStatus,
		SentAt:    n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal status change: %w", err)
	}

	// XADD stream MAXLEN ~ n * data <json>
	args := &redis.XAddArgs{
		Stream: n.stream,
		MaxLen: n.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}
	if _, err := n.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}
	return nil
}
