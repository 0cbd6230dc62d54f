package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"skypulse/flightcore/internal/common"
	"skypulse/flightcore/internal/db/repositories"
	"skypulse/flightcore/internal/models/dtos"
)

// HealthCheckHandler handles GET /healthCheck. Provider reachability is
// reported but never marks the service down, since offline mode is a
// supported state.
func HealthCheckHandler(db *sqlx.DB, redisClient *redis.Client, store repositories.CacheStore, reachability common.Reachability, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		services := make(map[string]dtos.ServiceStatus)

		dbStatus := dtos.ServiceStatus{Status: "ok", Details: "Cache database connected"}
		if err := db.PingContext(ctx); err != nil {
			dbStatus = dtos.ServiceStatus{Status: "down", Details: err.Error()}
		}
		services["database"] = dbStatus

		var cached *dtos.CacheStatus
		if counts, err := store.Counts(ctx); err == nil {
			cached = &dtos.CacheStatus{Flights: counts.Flights, Airports: counts.Airports}
		}

		if redisClient != nil {
			redisStatus := dtos.ServiceStatus{Status: "ok", Details: "Redis connected"}
			if err := redisClient.Ping(ctx).Err(); err != nil {
				redisStatus = dtos.ServiceStatus{Status: "down", Details: err.Error()}
			}
			services["redis"] = redisStatus
		}

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		resp := dtos.HealthCheckResponse{
			Services:  services,
			Status:    overallStatus,
			Uptime:    time.Since(upSince).Round(time.Second).String(),
			Reachable: reachability.IsReachable(),
			Cache:     cached,
		}

		code := http.StatusOK
		if overallStatus != "ok" {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
