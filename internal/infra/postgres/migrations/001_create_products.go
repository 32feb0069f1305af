package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createProductsTable creates the products table with its lookup indexes.
func createProductsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_products",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS products (
					id SERIAL PRIMARY KEY,
					product_id VARCHAR(128) NOT NULL,
					title VARCHAR(500) NOT NULL,
					url TEXT,
					rating JSONB,
					specifications TEXT[],
					media TEXT[],
					pricing JSONB NOT NULL DEFAULT '{}'::jsonb,

					-- First non strike-off price, kept in sync by the repository
					current_price DECIMAL(12,2) DEFAULT 0,

					category VARCHAR(128),
					warranty_summary TEXT,
					availability VARCHAR(32),
					source VARCHAR(32) NOT NULL,
					time_update TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT uq_products_product_id UNIQUE (product_id)
				);
			`).Error
			if err != nil {
				return err
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);",
				"CREATE INDEX IF NOT EXISTS idx_products_availability ON products(availability);",
				"CREATE INDEX IF NOT EXISTS idx_products_source ON products(source, id);",
				"CREATE INDEX IF NOT EXISTS idx_products_time_update ON products(time_update);",
				"CREATE INDEX IF NOT EXISTS idx_products_current_price ON products(current_price);",
				"CREATE INDEX IF NOT EXISTS idx_products_rating_average ON products(((rating->>'average')::numeric));",
				"CREATE INDEX IF NOT EXISTS idx_products_total_discount ON products(((pricing->>'totalDiscount')::numeric));",
			}

			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS products;").Error
		},
	}
}
