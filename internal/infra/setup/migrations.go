package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rpg-sheets/internal/domain"
)

// MigrateDB brings the schema up to date for every persisted model.
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	err := db.AutoMigrate(
		&domain.User{},
		&domain.Character{},
		&domain.AuditEntry{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate tables: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}
