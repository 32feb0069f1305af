package domain

import "testing"

func phone() *Product {
	p := withRating(newProduct(1, "Samsung Galaxy M14 5G", 12999), 4.3, 800)
	p.Category = "Mobiles"
	p.Specifications = []string{"6 GB RAM | 128 GB ROM", "5G Ready", "6000 mAh Battery"}
	return p
}

func TestMatches_EmptyFiltersMatchEverything(t *testing.T) {
	products := []*Product{phone(), {}, newProduct(2, "", 0)}

	for i, p := range products {
		if !Matches(p, Filters{}) {
			t.Errorf("product %d: expected empty filters to match", i)
		}
	}
}

func TestMatches_SingleCriteria(t *testing.T) {
	tests := []struct {
		name     string
		filters  Filters
		expected bool
	}{
		{"brand match", Filters{Brands: []string{"Apple", "Samsung"}}, true},
		{"brand miss", Filters{Brands: []string{"Apple"}}, false},
		{"brand is case sensitive", Filters{Brands: []string{"samsung"}}, false},
		{"price inclusive lower", Filters{PriceRange: &PriceRange{Min: 12999, Max: 20000}}, true},
		{"price inclusive upper", Filters{PriceRange: &PriceRange{Min: 0, Max: 12999}}, true},
		{"price outside", Filters{PriceRange: &PriceRange{Min: 13000, Max: 20000}}, false},
		{"memory match", Filters{Memory: []string{"6GB", "8GB"}}, true},
		{"memory miss", Filters{Memory: []string{"8GB"}}, false},
		{"storage match", Filters{Storage: []string{"128GB"}}, true},
		{"network match", Filters{Networks: []string{"5G"}}, true},
		{"network miss", Filters{Networks: []string{"4G"}}, false},
		{"color never extracted", Filters{Colors: []string{"Black"}}, false},
		{"rating floor met", Filters{MinRating: 4.3}, true},
		{"rating floor missed", Filters{MinRating: 4.5}, false},
		{"in stock", Filters{InStockOnly: true}, true},
		{"category exact", Filters{Category: "Mobiles"}, true},
		{"category differs in case", Filters{Category: "mobiles"}, false},
		{"availability exact", Filters{Availability: "IN_STOCK"}, true},
		{"availability miss", Filters{Availability: "OUT_OF_STOCK"}, false},
		{"spec fragments all present", Filters{Specifications: []string{"mah", "5g"}}, true},
		{"spec fragment missing", Filters{Specifications: []string{"mah", "amoled"}}, false},
		{"conditions are ignored", Filters{Conditions: []string{"refurbished"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(phone(), tt.filters); got != tt.expected {
				t.Errorf("Matches() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMatches_Conjunction(t *testing.T) {
	f := Filters{
		Brands:     []string{"Samsung"},
		PriceRange: &PriceRange{Min: 10000, Max: 15000},
		Networks:   []string{"5G"},
	}
	if !Matches(phone(), f) {
		t.Error("expected product satisfying every criterion to match")
	}

	f.MinRating = 4.8
	if Matches(phone(), f) {
		t.Error("expected a single failing criterion to reject the product")
	}
}

func TestMatches_UnratedFailsRatingFloor(t *testing.T) {
	p := newProduct(1, "Nokia 105", 1299)

	if Matches(p, Filters{MinRating: 0.5}) {
		t.Error("expected unrated product to fail a positive rating floor")
	}
}

func TestMatches_NoCurrentPriceIsZero(t *testing.T) {
	p := &Product{Pricing: Pricing{Prices: []Price{{StrikeOff: true, Value: 100}}}}

	if !Matches(p, Filters{PriceRange: &PriceRange{Min: 0, Max: 0}}) {
		t.Error("expected product without current price to be priced at 0")
	}
}

func TestFilters_IsEmpty(t *testing.T) {
	if !(Filters{}).IsEmpty() {
		t.Error("expected zero Filters to be empty")
	}
	if (Filters{InStockOnly: true}).IsEmpty() {
		t.Error("expected Filters with a flag set not to be empty")
	}
}

func TestFilterProducts(t *testing.T) {
	out := newProduct(2, "Samsung Galaxy A05", 8999)
	out.Availability = "OUT_OF_STOCK"
	products := []*Product{phone(), out}

	got := FilterProducts(products, Filters{InStockOnly: true})
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("expected only product 1, got %v", got)
	}

	if got := FilterProducts(products, Filters{Brands: []string{"Apple"}}); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %v", got)
	}
}

func TestMatchesBrand(t *testing.T) {
	tests := []struct {
		title    string
		brand    string
		expected bool
	}{
		{"Samsung Galaxy M14", "samsung", true},
		{"Samsung Galaxy M14", "SAMSUNG", true},
		{"Refurbished Apple iPhone 13", "apple", true},
		{"Pineapple Case", "apple", false},
		{"Galaxy by Samsung", "samsung", false},
		{"Sam Phone", "samsung", false},
	}

	for _, tt := range tests {
		t.Run(tt.title+"/"+tt.brand, func(t *testing.T) {
			p := &Product{Title: tt.title}
			if got := MatchesBrand(p, tt.brand); got != tt.expected {
				t.Errorf("MatchesBrand(%q, %q) = %v, want %v", tt.title, tt.brand, got, tt.expected)
			}
		})
	}
}

func TestMatchesCategory(t *testing.T) {
	p := &Product{Category: "Mobiles"}
	if !MatchesCategory(p, "mobiles") {
		t.Error("expected case-insensitive category match")
	}
	if MatchesCategory(p, "Tablets") {
		t.Error("expected category mismatch")
	}
}
