package store

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates or updates the engine tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate engine tables: %w", err)
	}
	return nil
}
