package gorm

import "time"

// Flight is the cached form of models.Flight. Endpoints and live data are
// flattened into prefixed columns so the cache can filter on them.
type Flight struct {
	ID           string `gorm:"column:id;primaryKey;type:varchar(64)"`
	FlightNumber string `gorm:"column:flight_number;type:varchar(16);index"`
	Status       string `gorm:"column:status;type:varchar(16);index"`

	AirlineIATA string `gorm:"column:airline_iata;type:varchar(3)"`
	AirlineICAO string `gorm:"column:airline_icao;type:varchar(4)"`
	AirlineName string `gorm:"column:airline_name;type:varchar(100)"`

	Departure FlightEndpoint `gorm:"embedded;embeddedPrefix:dep_"`
	Arrival   FlightEndpoint `gorm:"embedded;embeddedPrefix:arr_"`

	HasAircraft          bool    `gorm:"column:has_aircraft"`
	AircraftRegistration *string `gorm:"column:aircraft_registration;type:varchar(16)"`
	AircraftICAO24       *string `gorm:"column:aircraft_icao24;type:varchar(6)"`
	AircraftModel        *string `gorm:"column:aircraft_model;type:varchar(16)"`

	Live LiveTelemetry `gorm:"embedded;embeddedPrefix:live_"`

	CachedAt time.Time `gorm:"column:cached_at;index"`
}

// TableName specifies the table name for GORM
func (Flight) TableName() string {
	return "flights"
}

type FlightEndpoint struct {
	IATA      string     `gorm:"column:iata;type:varchar(3);index"`
	ICAO      string     `gorm:"column:icao;type:varchar(4)"`
	Name      string     `gorm:"column:name;type:text"`
	City      string     `gorm:"column:city;type:varchar(100)"`
	Country   string     `gorm:"column:country;type:varchar(100)"`
	Latitude  float64    `gorm:"column:latitude"`
	Longitude float64    `gorm:"column:longitude"`
	Timezone  string     `gorm:"column:timezone;type:varchar(50)"`
	Terminal  *string    `gorm:"column:terminal;type:varchar(16)"`
	Gate      *string    `gorm:"column:gate;type:varchar(16)"`
	Scheduled *time.Time `gorm:"column:scheduled"`
	Estimated *time.Time `gorm:"column:estimated"`
	Actual    *time.Time `gorm:"column:actual"`
	Delay     *int       `gorm:"column:delay"`
}

// LiveTelemetry columns are all nullable; a NULL latitude means no live data.
type LiveTelemetry struct {
	Latitude     *float64   `gorm:"column:latitude"`
	Longitude    *float64   `gorm:"column:longitude"`
	Altitude     *float64   `gorm:"column:altitude"`
	Speed        *float64   `gorm:"column:speed"`
	Heading      *float64   `gorm:"column:heading"`
	VerticalRate *float64   `gorm:"column:vertical_rate"`
	OnGround     *bool      `gorm:"column:on_ground"`
	UpdatedAt    *time.Time `gorm:"column:updated_at"`
}

// Favorite and SearchHistory are migrated through GORM but read and written with sqlx.
type Favorite struct {
	FlightID             string    `gorm:"column:flight_id;primaryKey;type:varchar(64)"`
	AddedAt              time.Time `gorm:"column:added_at;index"`
	NotificationsEnabled bool      `gorm:"column:notifications_enabled;default:true"`
}

func (Favorite) TableName() string {
	return "favorites"
}

type SearchHistory struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Query      string    `gorm:"column:query;type:varchar(100);not null"`
	SearchType string    `gorm:"column:search_type;type:varchar(20);not null"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
}

func (SearchHistory) TableName() string {
	return "search_history"
}
