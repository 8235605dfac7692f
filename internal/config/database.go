package config

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/excel-viewer/internal/models"
)

// InitDatabase connects to the upload audit database and migrates it.
func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := cfg.GetDatabaseDSN()

	logLevel := logger.Silent
	if cfg.Server.Env == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, eris.Wrap(err, "failed to connect to database")
	}

	zap.L().Info("✅ Database connected successfully")

	if err := db.AutoMigrate(&models.Upload{}); err != nil {
		return nil, eris.Wrap(err, "failed to migrate database")
	}

	zap.L().Info("✅ Database migration completed")

	return db, nil
}
