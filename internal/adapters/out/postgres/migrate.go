package postgres

import (
	"fmt"

	"pickup/internal/adapters/out/postgres/configrepo"
	"pickup/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// Migrate creates or alters the orders, logistics_events and provider_configs
// tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.LogisticsEventDTO{},
		&configrepo.ConfigDTO{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
