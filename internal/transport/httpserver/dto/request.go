// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"strings"

	"catalog-query-service/internal/domain"
)

// PageRequest holds pagination query parameters. Zero values select the defaults.
type PageRequest struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=1000"`
}

// SearchRequest represents the query parameters for a text search.
type SearchRequest struct {
	Query string `query:"q" validate:"max=200"`
	Page  int    `query:"page" validate:"omitempty,min=1"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=1000"`
}

// PriceRangeRequest holds the price filter query parameters.
type PriceRangeRequest struct {
	MinPrice float64 `query:"min_price" validate:"gte=0"`
	MaxPrice float64 `query:"max_price" validate:"required,gtefield=MinPrice"`
}

// RatingRequest holds the rating filter query parameters.
type RatingRequest struct {
	MinRating float64 `query:"min_rating" validate:"gte=0,lte=5"`
}

// AvailabilityRequest holds the availability filter query parameters.
type AvailabilityRequest struct {
	Status string `query:"status" validate:"omitempty,max=50"`
}

// TrendingRequest holds the trending query parameters.
type TrendingRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// PriceRangeBody is an inclusive price interval in a filter body.
type PriceRangeBody struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

// FilterRequest is the body of a multi-criteria filter request.
// Sort is read from the query string.
type FilterRequest struct {
	Brands         []string        `json:"brands" validate:"omitempty,max=50,dive,max=100"`
	PriceRange     *PriceRangeBody `json:"price_range"`
	Memory         []string        `json:"memory" validate:"omitempty,max=20,dive,max=20"`
	Storage        []string        `json:"storage" validate:"omitempty,max=20,dive,max=20"`
	Colors         []string        `json:"colors" validate:"omitempty,max=50,dive,max=50"`
	Networks       []string        `json:"networks" validate:"omitempty,max=10,dive,max=10"`
	Conditions     []string        `json:"conditions" validate:"omitempty,max=10,dive,max=50"`
	MinRating      float64         `json:"min_rating" validate:"gte=0,lte=5"`
	InStockOnly    bool            `json:"in_stock_only"`
	Category       string          `json:"category" validate:"max=100"`
	Availability   string          `json:"availability" validate:"max=50"`
	Specifications []string        `json:"specifications" validate:"omitempty,max=20,dive,max=100"`
	Sort           string          `json:"-" query:"sort" validate:"omitempty,sortkey"`
}

// ToFilters converts the request to domain.Filters. Blank list entries are dropped.
func (r *FilterRequest) ToFilters() domain.Filters {
	f := domain.Filters{
		Brands:         compact(r.Brands),
		Memory:         compact(r.Memory),
		Storage:        compact(r.Storage),
		Colors:         compact(r.Colors),
		Networks:       compact(r.Networks),
		Conditions:     compact(r.Conditions),
		MinRating:      r.MinRating,
		InStockOnly:    r.InStockOnly,
		Category:       strings.TrimSpace(r.Category),
		Availability:   strings.TrimSpace(r.Availability),
		Specifications: compact(r.Specifications),
	}

	if r.PriceRange != nil {
		f.PriceRange = &domain.PriceRange{Min: r.PriceRange.Min, Max: r.PriceRange.Max}
	}

	return f
}

// SortKey returns the requested ordering.
func (r *FilterRequest) SortKey() domain.SortKey {
	return domain.SortKey(r.Sort)
}

func compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
