// Package persistence provides database setup for the recipe store.
package persistence

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	gormdb "gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/un-earthly/cookish/internal/infrastructure/config"
	gormModels "github.com/un-earthly/cookish/internal/infrastructure/persistence/gorm"
)

// SetupDatabase opens the configured database and runs migrations. SQLite
// serves development and on-device deployments; PostgreSQL serves the server.
func SetupDatabase(cfg *config.Config, log *zap.Logger) (*gormdb.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.App.Debug {
		logLevel = gormlogger.Info
	}
	gormConfig := &gormdb.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	}

	var db *gormdb.DB
	var err error

	switch cfg.Database.Driver {
	case "postgres":
		db, err = gormdb.Open(postgres.Open(cfg.Database.DSN()), gormConfig)
	case "sqlite":
		path := cfg.Database.Path
		if path == "" {
			path = ":memory:"
		}
		db, err = gormdb.Open(sqlite.Open(path), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(
			&gormModels.RecipeModel{},
			&gormModels.VariationModel{},
			&gormModels.UserPreferencesModel{},
		); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	log.Info("database ready",
		zap.String("driver", cfg.Database.Driver),
		zap.Bool("auto_migrate", cfg.Database.AutoMigrate),
	)
	return db, nil
}
