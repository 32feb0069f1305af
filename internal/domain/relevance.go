package domain

import (
	"sort"
	"strings"
)

// Relevance weights per query term.
const (
	titleMatchWeight     = 10
	categoryMatchWeight  = 8
	specMatchWeight      = 5 // per matching specification string
	substringMatchWeight = 3
	prefixMatchWeight    = 2
)

// scoredCandidate pairs a product with its relevance score for one search.
type scoredCandidate struct {
	product *Product
	score   int
}

// QueryTerms splits a search query into lower-cased terms.
// It returns nil for an empty or whitespace-only query.
func QueryTerms(query string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(query)))
}

// ScoreProduct computes the additive relevance score of p for the given terms.
//
// For each term:
//
//	+10 title contains the term
//	+8  category contains the term
//	+5  for every specification string containing the term
//	+3  the joined title/category/specifications text contains the term
//	+2  a word of the joined text starts with the term
//
// A single term can earn several bonuses at once.
func ScoreProduct(p *Product, terms []string) int {
	title := strings.ToLower(p.Title)
	category := strings.ToLower(p.Category)

	specs := make([]string, len(p.Specifications))
	for i, s := range p.Specifications {
		specs[i] = strings.ToLower(s)
	}

	parts := append([]string{title, category}, specs...)
	haystack := strings.Join(parts, " ")
	words := strings.Split(haystack, " ")

	score := 0
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += titleMatchWeight
		}
		if strings.Contains(category, term) {
			score += categoryMatchWeight
		}
		for _, s := range specs {
			if strings.Contains(s, term) {
				score += specMatchWeight
			}
		}
		if strings.Contains(haystack, term) {
			score += substringMatchWeight
		}
		for _, w := range words {
			if strings.HasPrefix(w, term) {
				score += prefixMatchWeight
				break
			}
		}
	}

	return score
}

// RankByRelevance returns the products matching query ordered by descending
// relevance score. Products scoring zero are dropped; equal scores keep their
// input order. An empty query yields an empty result.
func RankByRelevance(products []*Product, query string) []*Product {
	terms := QueryTerms(query)
	if len(terms) == 0 {
		return []*Product{}
	}

	candidates := make([]scoredCandidate, 0, len(products))
	for _, p := range products {
		if score := ScoreProduct(p, terms); score > 0 {
			candidates = append(candidates, scoredCandidate{product: p, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	ranked := make([]*Product, len(candidates))
	for i, c := range candidates {
		ranked[i] = c.product
	}

	return ranked
}
