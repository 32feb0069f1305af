package postgres

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"catalog-query-service/internal/domain"
)

//go:embed seed_products.json
var seedProducts []byte

// SeedProducts returns the bundled sample catalog.
func SeedProducts() ([]*domain.Product, error) {
	var products []*domain.Product
	if err := json.Unmarshal(seedProducts, &products); err != nil {
		return nil, fmt.Errorf("decoding seed products: %w", err)
	}
	return products, nil
}

// Seed loads the sample catalog into an empty products table.
func Seed(ctx context.Context, repo *Repository, logger *zap.Logger) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Debug("products table not empty, skipping seed", zap.Int64("count", count))
		return nil
	}

	products, err := SeedProducts()
	if err != nil {
		return err
	}

	if err := repo.BulkUpsert(ctx, products); err != nil {
		return err
	}

	logger.Info("sample catalog seeded", zap.Int("count", len(products)))

	return nil
}
