package config

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/interview-agent/internal/models"
)

func InitDatabase(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.GetDatabaseDSN())
	case DriverSQLite:
		dialector = sqlite.Open(cfg.Database.SQLitePath)
	default:
		return nil, fmt.Errorf("driver %q is not a SQL driver", cfg.Database.Driver)
	}

	logLevel := logger.Silent
	if cfg.Server.Env == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("✅ Database connected successfully", zap.String("driver", cfg.Database.Driver))

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("✅ Database migration completed")

	return db, nil
}

// Migrate creates or updates the SQL tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Session{},
		&models.Interview{},
		&models.Resume{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
