// Package domain contains the core business logic and entities.
// This package has no external dependencies (only stdlib).
package domain

import (
	"strings"
)

// AvailabilityInStock is the availability status of a product that can be ordered.
const AvailabilityInStock = "IN_STOCK"

// Rating holds the aggregated customer rating of a product.
type Rating struct {
	Type               string  `json:"type"`
	Average            float64 `json:"average"`
	Base               int     `json:"base"`
	Breakup            []int   `json:"breakup"`
	Count              int     `json:"count"`
	HistogramBaseCount int     `json:"histogramBaseCount"`
	ReviewCount        int     `json:"reviewCount"`
	RoundOffCount      string  `json:"roundOffCount"`
}

// Price is a single price entry. StrikeOff marks the superseded (original) price.
type Price struct {
	StrikeOff bool    `json:"strikeOff"`
	Value     float64 `json:"value"`
}

// Pricing holds all price entries of a product and its discount.
type Pricing struct {
	DiscountAmount       float64 `json:"discountAmount"`
	Prices               []Price `json:"prices"`
	ShowDiscountAsAmount bool    `json:"showDiscountAsAmount"`
	TotalDiscount        float64 `json:"totalDiscount"`
}

// Product is a catalog item as returned by the remote catalog API.
// Products are never mutated after they are received.
type Product struct {
	ID              int      `json:"id"`
	ProductID       string   `json:"product_id"`
	Title           string   `json:"title"`
	URL             string   `json:"url"`
	Rating          *Rating  `json:"rating"` // nil when the product has no rating record
	Specifications  []string `json:"specifications"`
	Media           []string `json:"media"`
	Pricing         Pricing  `json:"pricing"`
	Category        string   `json:"category"`
	WarrantySummary string   `json:"warrantySummary"`
	Availability    string   `json:"availability"`
	Source          string   `json:"source"`
	TimeUpdate      string   `json:"time_update"`
}

// CurrentPrice returns the first non strike-off price, or 0 if there is none.
func (p *Product) CurrentPrice() float64 {
	for _, price := range p.Pricing.Prices {
		if !price.StrikeOff {
			return price.Value
		}
	}
	return 0
}

// OriginalPrice returns the first strike-off price and whether one exists.
func (p *Product) OriginalPrice() (float64, bool) {
	for _, price := range p.Pricing.Prices {
		if price.StrikeOff {
			return price.Value, true
		}
	}
	return 0, false
}

// HasStrikeOffPrice reports whether the product lists an original price.
func (p *Product) HasStrikeOffPrice() bool {
	_, ok := p.OriginalPrice()
	return ok
}

// Brand derives the brand from the first word of the title.
func (p *Product) Brand() string {
	fields := strings.Split(p.Title, " ")
	if fields[0] == "" {
		return "Unknown"
	}
	return fields[0]
}

// Model is the title without its brand word.
func (p *Product) Model() string {
	fields := strings.Split(p.Title, " ")
	model := strings.Join(fields[1:], " ")
	if model == "" {
		return "Unknown Model"
	}
	return model
}

// InStock returns true if the product availability is IN_STOCK.
func (p *Product) InStock() bool {
	return p.Availability == AvailabilityInStock
}

// AverageRating returns the average rating, or 0 when there is no rating record.
func (p *Product) AverageRating() float64 {
	if p.Rating == nil {
		return 0
	}
	return p.Rating.Average
}

// ReviewCount returns the number of written reviews, or 0 when unrated.
func (p *Product) ReviewCount() int {
	if p.Rating == nil {
		return 0
	}
	return p.Rating.ReviewCount
}

// Page is one page of a paginated product listing.
type Page struct {
	Items      []*Product `json:"items"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}

// EmptyPage is the result of a search without a query.
func EmptyPage() *Page {
	return &Page{
		Items:      []*Product{},
		Total:      0,
		Page:       1,
		Limit:      DefaultPageLimit,
		TotalPages: 0,
	}
}

// ProductStats holds aggregate catalog statistics.
type ProductStats struct {
	Total          int            `json:"total"`
	ByCategory     map[string]int `json:"byCategory"`
	ByAvailability map[string]int `json:"byAvailability"`
	AvgRating      float64        `json:"avgRating"`
}
