package client

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quickcourt/internal/config"
	"quickcourt/internal/models"
	"quickcourt/internal/util"
)

// NewPostgresDB opens the relational store, configures the pool and runs
// schema migration for all entities.
func NewPostgresDB(cfg *config.Config) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Silent)
	if !cfg.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Facility{},
		&models.Court{},
		&models.Booking{},
		&models.Match{},
		&models.MatchParticipant{},
		&models.Review{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	util.Info("database initialized")
	return db, nil
}
