package database

import (
	"context"
	"fmt"
	"strings"

	"collabia/internal/observability"

	"gorm.io/gorm"
)

// TruncateSeededTables removes every row the seeder manages. Postgres gets a
// single TRUNCATE; other dialects (sqlite in tests) fall back to DELETE.
func TruncateSeededTables(ctx context.Context, db *gorm.DB) error {
	observability.Logger.InfoContext(ctx, "🗑️  Clearing seeded tables")

	if db.Dialector.Name() == "postgres" {
		sql := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(SeededTables, ", "))
		if err := db.WithContext(ctx).Exec(sql).Error; err != nil {
			return fmt.Errorf("truncate seeded tables: %w", err)
		}
		return nil
	}

	for _, table := range SeededTables {
		if err := db.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear table %s: %w", table, err)
		}
	}
	return nil
}
