package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"skypulse/flightcore/internal/common"
	"skypulse/flightcore/internal/models"
)

type Handlers struct {
	deps *Dependencies
	now  func() time.Time
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
		now:  time.Now,
	}
}

// lastEmission drains a flight stream and keeps its freshest value.
func lastEmission(ctx context.Context, ch <-chan models.Flight) (models.Flight, bool) {
	var (
		last models.Flight
		got  bool
	)
	for {
		select {
		case f, ok := <-ch:
			if !ok {
				return last, got
			}
			last, got = f, true
		case <-ctx.Done():
			return last, got
		}
	}
}

func queryPtr(r *http.Request, key string) *string {
	return common.NonEmpty(strings.TrimSpace(r.URL.Query().Get(key)))
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
