package gormdb

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// SchemaVersion is bumped when a new entity store is added. Creation is
// strictly additive; opening a database written by a newer version fails
// instead of guessing.
const SchemaVersion = 1

// schemaMetaModel tracks the schema version as a single row.
type schemaMetaModel struct {
	ID      int `gorm:"primaryKey"`
	Version int `gorm:"not null"`
}

func (schemaMetaModel) TableName() string { return "schema_meta" }

// allModels lists every persisted entity kind.
func allModels() []any {
	return []any{
		&ProductModel{},
		&SaleModel{},
		&PaymentModel{},
		&CustomerModel{},
		&ExpenseModel{},
		&RecurringExpenseModel{},
		&EmployeeModel{},
		&AttachmentModel{},
		&ExchangeRateModel{},
		&CostTitleModel{},
		&AppSettingsModel{},
		&UserProfileModel{},
	}
}

// Migrate creates any missing entity stores and records the schema version.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&schemaMetaModel{}); err != nil {
		return fmt.Errorf("failed to migrate schema meta: %w", err)
	}

	var meta schemaMetaModel
	err := db.First(&meta, "id = ?", 1).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		meta = schemaMetaModel{ID: 1, Version: SchemaVersion}
	case err != nil:
		return fmt.Errorf("failed to read schema version: %w", err)
	case meta.Version > SchemaVersion:
		return fmt.Errorf("database schema version %d is newer than supported version %d", meta.Version, SchemaVersion)
	}

	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("failed to migrate entity stores: %w", err)
	}

	meta.Version = SchemaVersion
	if err := db.Save(&meta).Error; err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}
