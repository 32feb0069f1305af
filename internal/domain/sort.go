package domain

import (
	"sort"
)

// SortKey selects the ordering applied by SortProducts.
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
)

// IsValid reports whether k is a known sort key. The empty key is valid and
// behaves like SortRelevance.
func (k SortKey) IsValid() bool {
	switch k {
	case "", SortRelevance, SortPriceAsc, SortPriceDesc, SortRating, SortNewest:
		return true
	default:
		return false
	}
}

// SortProducts returns a sorted copy of products. The sort is stable.
// SortNewest and SortRelevance keep the upstream order.
func SortProducts(products []*Product, key SortKey) []*Product {
	sorted := make([]*Product, len(products))
	copy(sorted, products)

	switch key {
	case SortPriceAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CurrentPrice() < sorted[j].CurrentPrice()
		})
	case SortPriceDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CurrentPrice() > sorted[j].CurrentPrice()
		})
	case SortRating:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].AverageRating() > sorted[j].AverageRating()
		})
	}

	return sorted
}
