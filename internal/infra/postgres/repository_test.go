package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"catalog-query-service/internal/domain"
	"catalog-query-service/internal/infra/postgres/migrations"
)

// setupTestDB starts a PostgreSQL container, runs the migrations and seeds
// the sample catalog.
//
// Prerequisites:
//   - Docker must be running
//
// OR
//   - Skip tests with: go test -short
func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgresContainer.Run(ctx,
		"postgres:16-alpine",
		postgresContainer.WithDatabase("testdb"),
		postgresContainer.WithUsername("testuser"),
		postgresContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container (is Docker running? skip with -short): %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	db, err := gorm.Open(postgresDriver.Open(connStr), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, migrations.Run(db), "Failed to run migrations")

	repo := NewRepository(db)
	require.NoError(t, Seed(ctx, repo, zap.NewNop()))

	return repo, db
}

func productIDs(products []*domain.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ProductID
	}
	return ids
}

func TestRepository_ListAndGet(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	page, err := repo.List(ctx, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 2)

	first := page.Items[0]
	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ProductID, got.ProductID)
	assert.Equal(t, first.Pricing, got.Pricing)

	_, err = repo.GetByID(ctx, 99999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_Search(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	page, err := repo.Search(ctx, "galaxy", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = repo.Search(ctx, "5G", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total, "title and specification matches")

	page, err = repo.Search(ctx, "tablets", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total, "category match")

	page, err = repo.Search(ctx, "100%", 1, 20)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.NotNil(t, page.Items)
}

func TestRepository_Filters(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	byCategory, err := repo.ByCategory(ctx, "Tablets")
	require.NoError(t, err)
	assert.Equal(t, []string{"TABGTAB9FEWIFI64"}, productIDs(byCategory))

	byBrand, err := repo.ByBrand(ctx, "samsung")
	require.NoError(t, err)
	assert.Len(t, byBrand, 2)

	byPrice, err := repo.ByPriceRange(ctx, 10000, 20000)
	require.NoError(t, err)
	assert.Equal(t, []string{"MOBGHWFHABH3G73H", "MOBGMOTOG54BLUE2", "MOBGZ3RHQ8UWHXYZ"}, productIDs(byPrice))

	byRating, err := repo.ByRating(ctx, 4.3)
	require.NoError(t, err)
	assert.Equal(t, []string{"MOBGTAGPTB3VS24W", "TABGTAB9FEWIFI64", "MOBGHWFHABH3G73H"}, productIDs(byRating))

	inStock, err := repo.ByAvailability(ctx, domain.AvailabilityInStock)
	require.NoError(t, err)
	assert.Len(t, inStock, 5)
}

// The SQL rankings must agree with the in-process fallbacks.
func TestRepository_RankingsMatchDomain(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	all, err := repo.List(ctx, 1, 100)
	require.NoError(t, err)

	trending, err := repo.Trending(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, productIDs(domain.RankTrending(all.Items, 3)), productIDs(trending))

	discounted, err := repo.Discounted(ctx)
	require.NoError(t, err)
	assert.Equal(t, productIDs(domain.SelectDiscounted(all.Items)), productIDs(discounted))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	want := domain.ComputeStats(all.Items)
	assert.Equal(t, want.Total, stats.Total)
	assert.Equal(t, want.ByCategory, stats.ByCategory)
	assert.Equal(t, want.ByAvailability, stats.ByAvailability)
	assert.InDelta(t, want.AvgRating, stats.AvgRating, 1e-6)
}

func TestRepository_BulkUpsertIsIdempotent(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	before, err := repo.List(ctx, 1, 100)
	require.NoError(t, err)

	products, err := SeedProducts()
	require.NoError(t, err)
	products[0].Availability = "OUT_OF_STOCK"
	require.NoError(t, repo.BulkUpsert(ctx, products))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)
	assert.Equal(t, before.Items[0].ID, products[0].ID, "conflict keeps the existing id")

	updated, err := repo.GetByID(ctx, products[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "OUT_OF_STOCK", updated.Availability)

	require.NoError(t, Seed(ctx, repo, zap.NewNop()), "seeding a populated table is a no-op")
	require.NoError(t, repo.Ping(ctx))
}

func TestMigrations_Rollback(t *testing.T) {
	_, db := setupTestDB(t)

	require.NoError(t, migrations.Rollback(db))
	assert.True(t, db.Migrator().HasTable("products"), "only the search index migration is rolled back")
}
