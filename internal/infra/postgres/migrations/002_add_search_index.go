package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// addSearchIndex adds trigram indexes so that the case-insensitive substring
// search over title and category can use an index.
//
// pg_trgm is a contrib extension. When it cannot be installed the search
// still works through sequential scans, so the failure is not fatal.
func addSearchIndex() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "002_add_search_index",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`).Error; err != nil {
				return nil
			}

			indexes := []string{
				`CREATE INDEX IF NOT EXISTS idx_products_title_trgm
					ON products USING GIN (title gin_trgm_ops)`,
				`CREATE INDEX IF NOT EXISTS idx_products_category_trgm
					ON products USING GIN (category gin_trgm_ops)`,
			}

			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			_ = tx.Exec(`DROP INDEX IF EXISTS idx_products_title_trgm`).Error
			_ = tx.Exec(`DROP INDEX IF EXISTS idx_products_category_trgm`).Error
			return nil
		},
	}
}
