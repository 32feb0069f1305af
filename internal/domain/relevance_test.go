package domain

import "testing"

func TestScoreProduct(t *testing.T) {
	galaxy := &Product{
		Title:          "Samsung Galaxy M14 5G",
		Category:       "Mobiles",
		Specifications: []string{"6 GB RAM | 128 GB ROM", "5G Ready"},
	}

	tests := []struct {
		name     string
		product  *Product
		query    string
		expected int
	}{
		{
			name:    "galaxy 5g",
			product: galaxy,
			query:   "galaxy 5g",
			// galaxy: title 10 + haystack 3 + prefix 2 = 15
			// 5g: title 10 + one spec 5 + haystack 3 + prefix 2 = 20
			expected: 35,
		},
		{
			name:    "category only",
			product: galaxy,
			query:   "mobiles",
			// category 8 + haystack 3 + prefix 2
			expected: 13,
		},
		{
			name:    "substring inside a word",
			product: galaxy,
			query:   "axy",
			// title 10 + haystack 3, no word starts with "axy"
			expected: 13,
		},
		{
			name:     "no match",
			product:  &Product{Title: "Nokia 105", Category: "Feature Phones"},
			query:    "galaxy",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreProduct(tt.product, QueryTerms(tt.query)); got != tt.expected {
				t.Errorf("ScoreProduct() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestScoreProduct_SpecBonusPerString(t *testing.T) {
	p := &Product{Title: "Phone", Specifications: []string{"5G", "5G Carrier Aggregation"}}

	// two specs 10 + haystack 3 + prefix 2
	if got := ScoreProduct(p, []string{"5g"}); got != 15 {
		t.Errorf("ScoreProduct() = %d, want 15", got)
	}
}

func TestScoreProduct_Monotonic(t *testing.T) {
	base := &Product{Title: "Redmi Note", Category: "Mobiles"}
	extended := &Product{Title: "Redmi Note Galaxy", Category: "Mobiles"}
	terms := QueryTerms("galaxy note")

	if ScoreProduct(extended, terms) < ScoreProduct(base, terms) {
		t.Error("adding a matching term to the title must not decrease the score")
	}
}

func TestRankByRelevance(t *testing.T) {
	a := &Product{ID: 1, Title: "Galaxy Buds", Category: "Audio"}
	b := &Product{ID: 2, Title: "Samsung Galaxy M14 5G", Category: "Mobiles", Specifications: []string{"5G"}}
	c := &Product{ID: 3, Title: "Nokia 105", Category: "Feature Phones"}
	d := &Product{ID: 4, Title: "Galaxy Tab", Category: "Tablets"}

	ranked := RankByRelevance([]*Product{a, b, c, d}, "galaxy 5g")

	if len(ranked) != 3 {
		t.Fatalf("expected 3 results, got %d", len(ranked))
	}
	if ranked[0].ID != 2 {
		t.Errorf("expected product 2 first, got %d", ranked[0].ID)
	}
	// a and d tie; input order is kept
	if ranked[1].ID != 1 || ranked[2].ID != 4 {
		t.Errorf("expected tie order [1 4], got [%d %d]", ranked[1].ID, ranked[2].ID)
	}
}

func TestRankByRelevance_EmptyQuery(t *testing.T) {
	products := []*Product{{Title: "Galaxy"}}

	for _, q := range []string{"", "   ", "\t\n"} {
		ranked := RankByRelevance(products, q)
		if ranked == nil || len(ranked) != 0 {
			t.Errorf("RankByRelevance(%q) = %v, want empty slice", q, ranked)
		}
	}
}
