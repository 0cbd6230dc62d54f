package gorm

import "time"

// Airport is a cached airport row. IATA is the identity.
type Airport struct {
	IATA      string    `gorm:"column:iata;primaryKey;type:varchar(3)"`
	ICAO      string    `gorm:"column:icao;type:varchar(4)"`
	Name      string    `gorm:"column:name;type:text"`
	City      string    `gorm:"column:city;type:varchar(100)"`
	Country   string    `gorm:"column:country;type:varchar(100)"`
	Latitude  float64   `gorm:"column:latitude"`
	Longitude float64   `gorm:"column:longitude"`
	Timezone  string    `gorm:"column:timezone;type:varchar(50)"`
	CachedAt  time.Time `gorm:"column:cached_at;index"`
}

// TableName specifies the table name for GORM
func (Airport) TableName() string {
	return "airports"
}
