package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/lims-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// =========================
		// Identity
		// =========================
		&types.User{},

		// =========================
		// Inventory
		// =========================
		&types.Reagent{},
		&types.Batch{},
		&types.Equipment{},
	)
}

// EnsureInventoryIndexes adds the lookup indexes export and search paths filter on.
func EnsureInventoryIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"idx_batches_expiry_date", `CREATE INDEX IF NOT EXISTS idx_batches_expiry_date ON batches(expiry_date);`},
		{"idx_reagents_cas_number", `CREATE INDEX IF NOT EXISTS idx_reagents_cas_number ON reagents(cas_number);`},
		{"idx_equipment_type", `CREATE INDEX IF NOT EXISTS idx_equipment_type ON equipment(type);`},
	}
	for _, s := range stmts {
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}
