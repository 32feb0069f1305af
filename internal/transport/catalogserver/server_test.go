package catalogserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catalog-query-service/internal/domain"
	"catalog-query-service/internal/infra/provider"
	"catalog-query-service/internal/infra/provider/catalog"
	"catalog-query-service/internal/transport/httpserver/dto"
	"catalog-query-service/internal/validator"
)

// memStore serves products from memory with the same semantics as the
// PostgreSQL repository.
type memStore struct {
	products []*domain.Product
	pingErr  error
	err      error
}

func (s *memStore) List(_ context.Context, page, limit int) (*domain.Page, error) {
	if s.err != nil {
		return nil, s.err
	}
	return domain.Paginate(s.products, page, limit), nil
}

func (s *memStore) Search(_ context.Context, query string, page, limit int) (*domain.Page, error) {
	term := strings.ToLower(query)
	matches := domain.Select(s.products, func(p *domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Title+" "+p.Category+" "+strings.Join(p.Specifications, " ")), term)
	})
	return domain.Paginate(matches, page, limit), nil
}

func (s *memStore) ByCategory(_ context.Context, category string) ([]*domain.Product, error) {
	return domain.Select(s.products, func(p *domain.Product) bool { return p.Category == category }), nil
}

func (s *memStore) ByBrand(_ context.Context, brand string) ([]*domain.Product, error) {
	return domain.Select(s.products, func(p *domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Title), strings.ToLower(brand))
	}), nil
}

func (s *memStore) ByPriceRange(_ context.Context, minPrice, maxPrice float64) ([]*domain.Product, error) {
	r := domain.PriceRange{Min: minPrice, Max: maxPrice}
	return domain.Select(s.products, func(p *domain.Product) bool { return r.Contains(p.CurrentPrice()) }), nil
}

func (s *memStore) ByRating(_ context.Context, minRating float64) ([]*domain.Product, error) {
	return domain.Select(s.products, func(p *domain.Product) bool { return p.AverageRating() >= minRating }), nil
}

func (s *memStore) ByAvailability(_ context.Context, status string) ([]*domain.Product, error) {
	return domain.Select(s.products, func(p *domain.Product) bool { return p.Availability == status }), nil
}

func (s *memStore) Trending(_ context.Context, limit int) ([]*domain.Product, error) {
	return domain.RankTrending(s.products, limit), nil
}

func (s *memStore) Discounted(_ context.Context) ([]*domain.Product, error) {
	return domain.SelectDiscounted(s.products), nil
}

func (s *memStore) Stats(_ context.Context) (*domain.ProductStats, error) {
	return domain.ComputeStats(s.products), nil
}

func (s *memStore) GetByID(_ context.Context, id int) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memStore) Ping(_ context.Context) error {
	return s.pingErr
}

func fixtures() []*domain.Product {
	return []*domain.Product{
		{
			ID:             1,
			ProductID:      "MOB1",
			Title:          "Samsung Galaxy M14 5G",
			Category:       "Mobiles",
			Specifications: []string{"6 GB RAM | 128 GB ROM"},
			Pricing: domain.Pricing{
				TotalDiscount: 13,
				Prices:        []domain.Price{{StrikeOff: true, Value: 15000}, {Value: 12999}},
			},
			Rating:       &domain.Rating{Average: 4.3, ReviewCount: 1043},
			Availability: domain.AvailabilityInStock,
		},
		{
			ID:           2,
			ProductID:    "MOB2",
			Title:        "Apple iPhone 15",
			Category:     "Mobiles",
			Pricing:      domain.Pricing{Prices: []domain.Price{{Value: 52999}}},
			Rating:       &domain.Rating{Average: 4.6, ReviewCount: 640},
			Availability: domain.AvailabilityInStock,
		},
		{
			ID:           3,
			ProductID:    "MOB3",
			Title:        "Nokia 105",
			Category:     "Mobiles",
			Pricing:      domain.Pricing{Prices: []domain.Price{{Value: 1299}}},
			Availability: "OUT_OF_STOCK",
		},
	}
}

func newTestServer(store Store) *Server {
	return NewServer(Config{}, store, validator.New(), zap.NewNop())
}

func doGet(t *testing.T, s *Server, target string, out any) int {
	t.Helper()

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}

	return resp.StatusCode
}

func TestServer_Endpoints(t *testing.T) {
	s := newTestServer(&memStore{products: fixtures()})

	var page domain.Page
	assert.Equal(t, http.StatusOK, doGet(t, s, "/api/products/?page=1&limit=2", &page))
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 2)

	var products []*domain.Product
	assert.Equal(t, http.StatusOK, doGet(t, s, "/api/products/brand/samsung", &products))
	assert.Len(t, products, 1)

	assert.Equal(t, http.StatusOK, doGet(t, s, "/api/products/filter/availability", &products))
	assert.Len(t, products, 2, "status defaults to IN_STOCK")

	assert.Equal(t, http.StatusOK, doGet(t, s, "/api/products/filter/price?min_price=0&max_price=13000", &products))
	assert.Len(t, products, 2)

	assert.Equal(t, http.StatusOK, doGet(t, s, "/api/products/category/Tablets", &products))
	assert.NotNil(t, products)
	assert.Empty(t, products)

	var stats domain.ProductStats
	assert.Equal(t, http.StatusOK, doGet(t, s, "/api/products/stats", &stats))
	assert.Equal(t, 3, stats.Total)

	var product domain.Product
	assert.Equal(t, http.StatusOK, doGet(t, s, "/api/products/2", &product))
	assert.Equal(t, "MOB2", product.ProductID)
}

func TestServer_EscapedPathParams(t *testing.T) {
	phone := &domain.Product{ID: 4, ProductID: "MOB4", Title: "Nokia 105 Dual Sim", Category: "Feature Phones"}
	s := newTestServer(&memStore{products: append(fixtures(), phone)})

	var products []*domain.Product
	assert.Equal(t, http.StatusOK, doGet(t, s, "/api/products/category/Feature%20Phones", &products))
	require.Len(t, products, 1)
	assert.Equal(t, "MOB4", products[0].ProductID)

	assert.Equal(t, http.StatusOK, doGet(t, s, "/api/products/brand/nokia%20105", &products))
	assert.Len(t, products, 1)
}

func TestServer_Errors(t *testing.T) {
	s := newTestServer(&memStore{products: fixtures()})

	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"search without query", "/api/products/search", http.StatusBadRequest, dto.CodeValidationError},
		{"limit above maximum", "/api/products/?limit=1001", http.StatusBadRequest, dto.CodeValidationError},
		{"price without bounds", "/api/products/filter/price?min_price=10", http.StatusBadRequest, dto.CodeValidationError},
		{"rating without minimum", "/api/products/filter/rating", http.StatusBadRequest, dto.CodeValidationError},
		{"non numeric id", "/api/products/abc", http.StatusBadRequest, dto.CodeInvalidParams},
		{"unknown id", "/api/products/404", http.StatusNotFound, dto.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body dto.ErrorResponse
			assert.Equal(t, tt.status, doGet(t, s, tt.target, &body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestServer_StoreFailure(t *testing.T) {
	s := newTestServer(&memStore{err: errors.New("connection refused")})

	var body dto.ErrorResponse
	assert.Equal(t, http.StatusInternalServerError, doGet(t, s, "/api/products/", &body))
	assert.Equal(t, dto.CodeInternalError, body.Code)
}

func TestServer_Health(t *testing.T) {
	healthy := newTestServer(&memStore{})
	assert.Equal(t, http.StatusOK, doGet(t, healthy, "/api/products/health", nil))
	assert.Equal(t, http.StatusOK, doGet(t, healthy, "/readyz", nil))

	down := newTestServer(&memStore{pingErr: errors.New("db down")})
	assert.Equal(t, http.StatusServiceUnavailable, doGet(t, down, "/api/products/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, doGet(t, down, "/readyz", nil))
	assert.Equal(t, http.StatusOK, doGet(t, down, "/livez", nil))
}

// The query service's client must decode everything this server returns.
func TestServer_CatalogClientContract(t *testing.T) {
	s := newTestServer(&memStore{products: fixtures()})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = s.App.Listener(ln) }()
	t.Cleanup(func() { _ = s.App.Shutdown() })

	client := catalog.New(provider.ClientConfig{
		BaseURL: "http://" + ln.Addr().String(),
		CB:      provider.CBConfig{MaxRequests: 1, FailureRatio: 1},
	}, zap.NewNop())
	ctx := context.Background()

	page, err := client.SearchProducts(ctx, "galaxy", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	rated, err := client.ProductsByRating(ctx, 4.5)
	require.NoError(t, err)
	require.Len(t, rated, 1)
	assert.Equal(t, "MOB2", rated[0].ProductID)

	trending, err := client.TrendingProducts(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, trending, 2, "unrated products never trend")

	discounted, err := client.DiscountedProducts(ctx)
	require.NoError(t, err)
	require.Len(t, discounted, 1)
	assert.Equal(t, 15000.0, discounted[0].Pricing.Prices[0].Value)

	stats, err := client.ProductStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Mobiles": 3}, stats.ByCategory)

	byBrand, err := client.ProductsByBrand(ctx, "Apple iPhone")
	require.NoError(t, err)
	require.Len(t, byBrand, 1, "path params with spaces survive the round trip")
	assert.Equal(t, "MOB2", byBrand[0].ProductID)

	_, err = client.ProductByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, client.HealthCheck(ctx))
}
