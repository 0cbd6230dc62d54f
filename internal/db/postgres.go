package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
)

// InitSQLX returns the sqlx handle used by the favorites and search history
// repositories. Postgres gets its own lib/pq pool; sqlite shares the GORM
// connection so both layers see the same database.
func InitSQLX(driver, dsn string, orm *gorm.DB) (*sqlx.DB, error) {
	if driver == DriverPostgres {
		return connectPostgres(dsn)
	}

	sqlDB, err := orm.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite handle: %w", err)
	}
	return sqlx.NewDb(sqlDB, "sqlite3"), nil
}

func connectPostgres(dsn string) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)

	for i := 0; i < 10; i++ {
		conn, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			return conn, nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return nil, fmt.Errorf("failed to connect to postgres (sqlx): %w", err)
}
