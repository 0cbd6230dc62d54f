package common

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"skypulse/flightcore/internal/logging"
	"skypulse/flightcore/internal/models"
)

//go:embed data/*.json
var embeddedDataset embed.FS

const (
	offlineFlightsFile   = "offline_flights.json"
	offlineAirportsFile  = "offline_airports.json"
	offlinePositionsFile = "offline_positions.json"
)

// OfflinePosition is a canned live position keyed by transponder address.
type OfflinePosition struct {
	ICAO24 string `json:"icao24"`
	models.LiveTelemetry
}

// OfflineDataset is the bundled data served when mock mode is on or the
// network is unreachable with an empty cache. It is read once and never mutated.
type OfflineDataset struct {
	flights   []models.Flight
	airports  []models.Airport
	positions map[string]models.LiveTelemetry
}

// LoadOfflineDataset reads the three dataset files from dir, or from the
// embedded copy when dir is empty.
func LoadOfflineDataset(dir string) (*OfflineDataset, error) {
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(embeddedDataset, "data")
		if err != nil {
			return nil, err
		}
		fsys = sub
	} else {
		fsys = os.DirFS(dir)
	}

	ds := &OfflineDataset{positions: map[string]models.LiveTelemetry{}}

	if err := decodeDatasetFile(fsys, offlineFlightsFile, &ds.flights); err != nil {
		return nil, err
	}
	if err := decodeDatasetFile(fsys, offlineAirportsFile, &ds.airports); err != nil {
		return nil, err
	}

	var positions []OfflinePosition
	if err := decodeDatasetFile(fsys, offlinePositionsFile, &positions); err != nil {
		return nil, err
	}
	for _, p := range positions {
		ds.positions[strings.ToLower(p.ICAO24)] = p.LiveTelemetry
	}

	logging.Info("Offline dataset loaded",
		"flights", len(ds.flights),
		"airports", len(ds.airports),
		"positions", len(ds.positions))
	return ds, nil
}

// MustLoadEmbeddedDataset is for tests and wiring paths where the bundled
// data is known to be valid.
func MustLoadEmbeddedDataset() *OfflineDataset {
	ds, err := LoadOfflineDataset("")
	if err != nil {
		panic(err)
	}
	return ds
}

func decodeDatasetFile(fsys fs.FS, name string, dst any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// Flights returns a copy of the bundled flights.
func (d *OfflineDataset) Flights() []models.Flight {
	out := make([]models.Flight, len(d.flights))
	copy(out, d.flights)
	return out
}

// SearchFlights returns bundled flights matching params, in dataset order.
func (d *OfflineDataset) SearchFlights(params models.FlightSearchParams) []models.Flight {
	out := make([]models.Flight, 0)
	for _, f := range d.flights {
		if params.Matches(f) {
			out = append(out, f)
		}
	}
	return out
}

func (d *OfflineDataset) Airports() []models.Airport {
	out := make([]models.Airport, len(d.airports))
	copy(out, d.airports)
	return out
}

// SearchAirports matches query against IATA code, name and city, case-insensitively.
func (d *OfflineDataset) SearchAirports(query string) []models.Airport {
	q := strings.ToUpper(strings.TrimSpace(query))
	out := make([]models.Airport, 0)
	for _, a := range d.airports {
		if q == "" ||
			strings.Contains(strings.ToUpper(a.IATA), q) ||
			strings.Contains(strings.ToUpper(a.Name), q) ||
			strings.Contains(strings.ToUpper(a.City), q) {
			out = append(out, a)
		}
	}
	return out
}

// Airport returns the bundled airport with iata, if any.
func (d *OfflineDataset) Airport(iata string) (models.Airport, bool) {
	code := strings.ToUpper(strings.TrimSpace(iata))
	for _, a := range d.airports {
		if strings.EqualFold(a.IATA, code) {
			return a, true
		}
	}
	return models.Airport{}, false
}

// Positions returns the canned positions keyed by lower-case icao24.
func (d *OfflineDataset) Positions() map[string]models.LiveTelemetry {
	out := make(map[string]models.LiveTelemetry, len(d.positions))
	for k, v := range d.positions {
		out[k] = v
	}
	return out
}

// Position returns the canned position for icao24, if any.
func (d *OfflineDataset) Position(icao24 string) (*models.LiveTelemetry, bool) {
	t, ok := d.positions[strings.ToLower(icao24)]
	if !ok {
		return nil, false
	}
	return &t, true
}
