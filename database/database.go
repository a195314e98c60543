package database

import (
	"fmt"

	"brickshot/internal/domain/media"
	"brickshot/internal/domain/shotlist"
	"brickshot/internal/domain/users"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB connects to postgres and migrates every model.
func InitDB(dsn string, log *zap.Logger) error {
	if dsn == "" {
		return fmt.Errorf("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return err
	}
	DB = db
	log.Info("connected and migrated")
	return nil
}

// Migrate creates or updates the schema on db. Tests call it on SQLite.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// accounts
		&users.User{},

		// shot list
		&shotlist.Project{},
		&shotlist.Scene{},
		&shotlist.Shot{},

		// media
		&media.Attachment{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
