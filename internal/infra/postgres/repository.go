package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catalog-query-service/internal/domain"
)

// SQL fragments over the jsonb columns.
const (
	ratingAverage = "(rating->>'average')::numeric"
	reviewCount   = "coalesce((rating->>'reviewCount')::numeric, 0)"
	totalDiscount = "coalesce((pricing->>'totalDiscount')::numeric, 0)"
	hasStrikeOff  = "EXISTS (SELECT 1 FROM jsonb_array_elements(coalesce(pricing->'prices', '[]'::jsonb)) p WHERE (p->>'strikeOff')::boolean)"
)

// trendingOrder mirrors domain.TrendingScore.
var trendingOrder = fmt.Sprintf("(%s * 0.7 + LEAST(%s / 1000.0, 1) * 0.3 * 5) DESC, id", ratingAverage, reviewCount)

// upsertColumns are rewritten when a product is re-imported.
var upsertColumns = []string{
	"title", "url", "rating", "specifications", "media", "pricing",
	"current_price", "category", "warranty_summary", "availability", "source", "time_update",
}

// Repository serves the catalog API queries from PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns one page of products ordered by id.
func (r *Repository) List(ctx context.Context, page, limit int) (*domain.Page, error) {
	return r.paginate(ctx, r.db.Model(&ProductModel{}), page, limit)
}

// Search matches the query case-insensitively against title, category and
// specifications.
func (r *Repository) Search(ctx context.Context, query string, page, limit int) (*domain.Page, error) {
	term := "%" + escapeLike(strings.TrimSpace(query)) + "%"

	q := r.db.Model(&ProductModel{}).Where(
		"title ILIKE ? OR category ILIKE ? OR array_to_string(specifications, ' ') ILIKE ?",
		term, term, term,
	)

	return r.paginate(ctx, q, page, limit)
}

// ByCategory returns every product of the exact category.
func (r *Repository) ByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return r.find(ctx, "by category", r.db.Where("category = ?", category).Order("id"))
}

// ByBrand returns every product whose title contains brand.
func (r *Repository) ByBrand(ctx context.Context, brand string) ([]*domain.Product, error) {
	term := "%" + escapeLike(brand) + "%"
	return r.find(ctx, "by brand", r.db.Where("title ILIKE ?", term).Order("id"))
}

// ByPriceRange returns products whose current price lies within [minPrice, maxPrice].
func (r *Repository) ByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]*domain.Product, error) {
	q := r.db.Where("current_price BETWEEN ? AND ?", minPrice, maxPrice).Order("current_price, id")
	return r.find(ctx, "by price range", q)
}

// ByRating returns products rated at least minRating, best first.
func (r *Repository) ByRating(ctx context.Context, minRating float64) ([]*domain.Product, error) {
	q := r.db.Where(ratingAverage+" >= ?", minRating).Order(ratingAverage + " DESC, id")
	return r.find(ctx, "by rating", q)
}

// ByAvailability returns products with the given availability status.
func (r *Repository) ByAvailability(ctx context.Context, status string) ([]*domain.Product, error) {
	return r.find(ctx, "by availability", r.db.Where("availability = ?", status).Order("id"))
}

// Trending returns up to limit rated products by descending trending score.
func (r *Repository) Trending(ctx context.Context, limit int) ([]*domain.Product, error) {
	q := r.db.Where(ratingAverage + " > 0").Order(trendingOrder).Limit(limit)
	return r.find(ctx, "trending", q)
}

// Discounted returns products with a discount and an original price,
// largest discount first.
func (r *Repository) Discounted(ctx context.Context) ([]*domain.Product, error) {
	q := r.db.Where(totalDiscount + " > 0 AND " + hasStrikeOff).Order(totalDiscount + " DESC, id")
	return r.find(ctx, "discounted", q)
}

type groupCount struct {
	Key   string
	Count int
}

// Stats aggregates the catalog.
func (r *Repository) Stats(ctx context.Context) (*domain.ProductStats, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ProductModel{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting products: %w", err)
	}

	byCategory, err := r.countBy(ctx, "category")
	if err != nil {
		return nil, err
	}

	byAvailability, err := r.countBy(ctx, "availability")
	if err != nil {
		return nil, err
	}

	var avg sql.NullFloat64
	err = r.db.WithContext(ctx).Model(&ProductModel{}).
		Select("AVG(" + ratingAverage + ")").
		Where(ratingAverage + " > 0").
		Row().
		Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("averaging ratings: %w", err)
	}

	stats := &domain.ProductStats{
		Total:          int(total),
		ByCategory:     byCategory,
		ByAvailability: byAvailability,
	}
	if avg.Valid {
		stats.AvgRating = avg.Float64
	}

	return stats, nil
}

// GetByID retrieves a product by id. Returns domain.ErrNotFound when absent.
func (r *Repository) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}

		return nil, fmt.Errorf("getting product by id: %w", err)
	}

	return model.ToDomain(), nil
}

// BulkUpsert creates or updates products keyed by product_id.
func (r *Repository) BulkUpsert(ctx context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	models := FromDomainSlice(products)
	for _, m := range models {
		m.ID = 0
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).CreateInBatches(models, 100).Error
	if err != nil {
		return fmt.Errorf("bulk upserting products: %w", err)
	}

	for i, m := range models {
		products[i].ID = m.ID
	}

	return nil
}

// Count returns the number of stored products.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ProductModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}

	return count, nil
}

// Ping verifies the database connection is alive.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

func (r *Repository) paginate(ctx context.Context, query *gorm.DB, page, limit int) (*domain.Page, error) {
	page, limit = domain.NormalizePage(page, limit)

	var total int64
	if err := query.Session(&gorm.Session{}).WithContext(ctx).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting products: %w", err)
	}

	var models []ProductModel
	err := query.WithContext(ctx).
		Order("id").
		Offset(domain.Offset(page, limit)).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	return &domain.Page{
		Items:      toDomainSlice(models),
		Total:      int(total),
		Page:       page,
		Limit:      limit,
		TotalPages: domain.TotalPages(int(total), limit),
	}, nil
}

func (r *Repository) find(ctx context.Context, name string, query *gorm.DB) ([]*domain.Product, error) {
	var models []ProductModel
	if err := query.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("querying products %s: %w", name, err)
	}

	return toDomainSlice(models), nil
}

func (r *Repository) countBy(ctx context.Context, column string) (map[string]int, error) {
	var rows []groupCount
	err := r.db.WithContext(ctx).Model(&ProductModel{}).
		Select(fmt.Sprintf("coalesce(%s, '') AS key, COUNT(*) AS count", column)).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting products by %s: %w", column, err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Key] += row.Count
	}

	return counts, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
