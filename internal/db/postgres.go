package db

import (
	"time"

	"github.com/avast/retry-go"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"resilient-bharat/prashikshan/internal/config"
)

var DB *sqlx.DB

// InitPostgres connects the sqlx handle used by the analytics read
// side. The container may come up before the database, so retry.
func InitPostgres(cfg *config.Config) error {
	err := retry.Do(
		func() error {
			conn, err := sqlx.Connect("postgres", cfg.PostgresDSN())
			if err != nil {
				return err
			}
			DB = conn
			return nil
		},
		retry.Attempts(10),
		retry.Delay(500*time.Millisecond),
	)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(cfg.PGMaxOpen)
	DB.SetMaxIdleConns(cfg.PGMaxIdle)
	return nil
}
