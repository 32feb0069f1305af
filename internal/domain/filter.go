package domain

import (
	"slices"
	"strings"
)

// PriceRange is an inclusive current-price interval.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price lies within [Min, Max].
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// Filters is a multi-criteria product filter. Every non-empty field must hold
// for a product to match; the zero value matches every product.
type Filters struct {
	Brands         []string    `json:"brands,omitempty"`
	PriceRange     *PriceRange `json:"price_range,omitempty"`
	Memory         []string    `json:"memory,omitempty"`
	Storage        []string    `json:"storage,omitempty"`
	Colors         []string    `json:"colors,omitempty"`
	Networks       []string    `json:"networks,omitempty"`
	Conditions     []string    `json:"conditions,omitempty"` // keyed but not evaluated: products carry no condition
	MinRating      float64     `json:"min_rating,omitempty"`
	InStockOnly    bool        `json:"in_stock_only,omitempty"`
	Category       string      `json:"category,omitempty"`
	Availability   string      `json:"availability,omitempty"`
	Specifications []string    `json:"specifications,omitempty"` // required substrings
}

// IsEmpty reports whether no criterion is set.
func (f Filters) IsEmpty() bool {
	return len(f.Brands) == 0 &&
		f.PriceRange == nil &&
		len(f.Memory) == 0 &&
		len(f.Storage) == 0 &&
		len(f.Colors) == 0 &&
		len(f.Networks) == 0 &&
		len(f.Conditions) == 0 &&
		f.MinRating <= 0 &&
		!f.InStockOnly &&
		f.Category == "" &&
		f.Availability == "" &&
		len(f.Specifications) == 0
}

// Matches reports whether p satisfies every set criterion of f.
func Matches(p *Product, f Filters) bool {
	if len(f.Brands) > 0 && !slices.Contains(f.Brands, p.Brand()) {
		return false
	}

	if f.PriceRange != nil && !f.PriceRange.Contains(p.CurrentPrice()) {
		return false
	}

	if needsExtractedSpec(f) {
		spec := ExtractSpecs(p.Specifications)
		if !inSet(f.Memory, spec.RAM) ||
			!inSet(f.Storage, spec.Storage) ||
			!inSet(f.Colors, spec.Color) ||
			!inSet(f.Networks, spec.Network) {
			return false
		}
	}

	if f.MinRating > 0 && !MatchesMinRating(p, f.MinRating) {
		return false
	}

	if f.InStockOnly && !p.InStock() {
		return false
	}

	if f.Category != "" && p.Category != f.Category {
		return false
	}

	if f.Availability != "" && p.Availability != f.Availability {
		return false
	}

	if len(f.Specifications) > 0 && !HasAllSpecifications(p, f.Specifications) {
		return false
	}

	return true
}

// FilterProducts returns the products matching f, preserving order.
func FilterProducts(products []*Product, f Filters) []*Product {
	return Select(products, func(p *Product) bool { return Matches(p, f) })
}

// Select returns the products for which keep returns true, preserving order.
func Select(products []*Product, keep func(*Product) bool) []*Product {
	selected := make([]*Product, 0)
	for _, p := range products {
		if keep(p) {
			selected = append(selected, p)
		}
	}
	return selected
}

// MatchesBrand is the loose, title-based brand match used by brand queries.
// The brand matches when the lower-cased title starts with it, contains it as
// a space-separated word, or has it as its first word.
func MatchesBrand(p *Product, brand string) bool {
	title := strings.ToLower(p.Title)
	b := strings.ToLower(brand)

	return strings.HasPrefix(title, b) ||
		strings.Contains(title, " "+b+" ") ||
		strings.Split(title, " ")[0] == b
}

// MatchesCategory compares categories ignoring case.
func MatchesCategory(p *Product, category string) bool {
	return strings.EqualFold(p.Category, category)
}

// MatchesMinRating fails for unrated products.
func MatchesMinRating(p *Product, minRating float64) bool {
	return p.Rating != nil && p.Rating.Average >= minRating
}

// HasAllSpecifications reports whether every fragment occurs, ignoring case,
// in at least one specification string of p.
func HasAllSpecifications(p *Product, fragments []string) bool {
	for _, fragment := range fragments {
		needle := strings.ToLower(fragment)
		found := false
		for _, s := range p.Specifications {
			if strings.Contains(strings.ToLower(s), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func needsExtractedSpec(f Filters) bool {
	return len(f.Memory) > 0 || len(f.Storage) > 0 || len(f.Colors) > 0 || len(f.Networks) > 0
}

// inSet is true for an empty set.
func inSet(set []string, value string) bool {
	return len(set) == 0 || slices.Contains(set, value)
}
