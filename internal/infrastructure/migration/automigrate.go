package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/rollcall/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.PendingAttendanceModel{},
		&models.LocalSettingModel{},
	}
}

// Migrate creates or updates the local schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AutoMigrateModels()...); err != nil {
		return fmt.Errorf("failed to migrate local schema: %w", err)
	}
	return nil
}
