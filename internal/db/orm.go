package db

import (
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	gormModels "resilient-bharat/prashikshan/internal/models/gorm"
)

var PgDB *gorm.DB

// InitPostgresORM connects the GORM handle used by the write model and
// migrates the schema.
func InitPostgresORM(dsn string) (*gorm.DB, error) {
	var conn *gorm.DB
	err := retry.Do(
		func() error {
			db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
			if err != nil {
				return err
			}
			conn = db
			return nil
		},
		retry.Attempts(10),
		retry.Delay(500*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := Migrate(conn); err != nil {
		return nil, err
	}

	PgDB = conn
	return conn, nil
}

// Migrate creates or updates the schema. Also used by tests against
// in-memory sqlite.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&gormModels.User{},
		&gormModels.Training{},
		&gormModels.TrainingRegistration{},
		&gormModels.TrainingFeedback{},
		&gormModels.TrainingResource{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
