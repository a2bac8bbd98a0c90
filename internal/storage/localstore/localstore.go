// Package localstore opens the embedded single-process backend: a sqlite
// database file holding one table per entity kind, with multi-table
// transactions supplied by the engine itself.
package localstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopbook/backend/internal/storage/gormdb"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open creates or opens the embedded database under dataDir and returns the
// backend bound to the given tenant. Missing entity stores are created
// additively on first open.
func Open(dataDir, tenantID string) (*gormdb.Store, error) {
	return OpenWithLogger(dataDir, tenantID, logger.Silent)
}

// OpenWithLogger opens the embedded database with a custom GORM log level.
func OpenWithLogger(dataDir, tenantID string, logLevel logger.LogLevel) (*gormdb.Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	path := filepath.Join(dataDir, "shopbook.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	// A single writer at a time keeps sqlite's transaction model simple and
	// matches the single-session assumption of the local backend.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gormdb.Migrate(db); err != nil {
		return nil, err
	}

	return gormdb.New(db, tenantID), nil
}

// OpenInMemory opens a throwaway in-memory database, used by tests.
func OpenInMemory(tenantID string) (*gormdb.Store, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	if err := gormdb.Migrate(db); err != nil {
		return nil, err
	}
	return gormdb.New(db, tenantID), nil
}
