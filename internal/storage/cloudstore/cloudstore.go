// Package cloudstore opens the remote multi-tenant backend: a shared postgres
// cluster where every row carries a tenant id and multi-step operations ride
// on the database's native transactions. Several devices may act on the same
// tenant concurrently, which is why writes never bypass the transaction path.
package cloudstore

import (
	"fmt"
	"time"

	"github.com/shopbook/backend/internal/infrastructure/config"
	"github.com/shopbook/backend/internal/storage/gormdb"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the shared cluster and returns the backend scoped to the
// given tenant.
func Open(cfg config.DatabaseConfig, tenantID string) (*gormdb.Store, error) {
	return OpenWithLogger(cfg, tenantID, logger.Silent)
}

// OpenWithLogger connects with a custom GORM log level.
func OpenWithLogger(cfg config.DatabaseConfig, tenantID string, logLevel logger.LogLevel) (*gormdb.Store, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := gormdb.Migrate(db); err != nil {
		return nil, err
	}

	return gormdb.New(db, tenantID), nil
}
