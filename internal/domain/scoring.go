package domain

import (
	"math"
	"sort"
)

// TrendingScore computes the popularity score used to rank trending products.
//
// Formula:
//
//	Trending Score = Average Rating * 0.7 + min(Review Count / 1000, 1) * 0.3 * 5
//
// The review term saturates at 1000 reviews, so it contributes at most 1.5.
// Unrated products score 0.
func TrendingScore(p *Product) float64 {
	if p == nil || p.Rating == nil {
		return 0
	}

	reviewFactor := math.Min(float64(p.Rating.ReviewCount)/1000, 1)

	return p.Rating.Average*0.7 + reviewFactor*0.3*5
}

// RankTrending returns up to limit rated products ordered by descending
// TrendingScore. Products without a positive average rating are excluded.
func RankTrending(products []*Product, limit int) []*Product {
	type trendingCandidate struct {
		product *Product
		score   float64
	}

	candidates := make([]trendingCandidate, 0, len(products))
	for _, p := range products {
		if p.AverageRating() > 0 {
			candidates = append(candidates, trendingCandidate{product: p, score: TrendingScore(p)})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit >= 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	trending := make([]*Product, len(candidates))
	for i, c := range candidates {
		trending[i] = c.product
	}

	return trending
}

// SelectDiscounted returns products that have a positive total discount and an
// original (strike-off) price, ordered by descending total discount.
func SelectDiscounted(products []*Product) []*Product {
	discounted := make([]*Product, 0)
	for _, p := range products {
		if p.Pricing.TotalDiscount > 0 && p.HasStrikeOffPrice() {
			discounted = append(discounted, p)
		}
	}

	sort.SliceStable(discounted, func(i, j int) bool {
		return discounted[i].Pricing.TotalDiscount > discounted[j].Pricing.TotalDiscount
	})

	return discounted
}

// ComputeStats aggregates counts by category and availability and the mean of
// all positive average ratings.
func ComputeStats(products []*Product) *ProductStats {
	stats := &ProductStats{
		Total:          len(products),
		ByCategory:     make(map[string]int),
		ByAvailability: make(map[string]int),
	}

	var ratingSum float64
	ratingCount := 0
	for _, p := range products {
		stats.ByCategory[p.Category]++
		stats.ByAvailability[p.Availability]++

		if avg := p.AverageRating(); avg > 0 {
			ratingSum += avg
			ratingCount++
		}
	}

	if ratingCount > 0 {
		stats.AvgRating = ratingSum / float64(ratingCount)
	}

	return stats
}
